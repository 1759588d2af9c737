package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/pledge/internal/logtail"
	"github.com/five82/pledge/internal/prefs"
	"github.com/five82/pledge/internal/progress"
	"github.com/five82/pledge/internal/state"
)

// Poller is the part of the poll loop the UI drives.
type Poller interface {
	Start(ctx context.Context)
	Refresh(ctx context.Context) bool
	SetOnChange(fn func(state.Snapshot))
	Store() *state.Store
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Poller     Poller
	Goal       int64
	Currency   string
	Milestones []progress.Milestone
	Endpoint   string // shown in the footer
	LogPath    string // tracker log shown by the log pane
	Prefs      prefs.Prefs
	PrefsPath  string
	Logger     zerolog.Logger
}

const (
	// clockTick refreshes relative times and the log pane.
	clockTick = time.Second
	logLines  = 8
)

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	poller    Poller
	prefsPath string
	logger    zerolog.Logger

	goal       int64
	currency   string
	milestones []progress.Milestone
	endpoint   string
	logPath    string

	theme       Theme
	hideDetails bool
	width       int
	height      int

	snapshot state.Snapshot
	now      time.Time
	notice   string // transient footer message
	showLog  bool
	logTail  []string

	keys    keyMap
	help    help.Model
	spinner spinner.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.Prefs.Theme
	if themeName == "" {
		themeName = prefs.Default().Theme
	}
	theme := GetTheme(themeName)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))

	m := Model{
		ctx:         ctx,
		poller:      opts.Poller,
		prefsPath:   prefsPath,
		logger:      opts.Logger,
		goal:        opts.Goal,
		currency:    opts.Currency,
		milestones:  opts.Milestones,
		endpoint:    opts.Endpoint,
		logPath:     opts.LogPath,
		theme:       theme,
		hideDetails: opts.Prefs.HideDetails,
		now:         time.Now(),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, tickCmd(clockTick)}
	if m.poller != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.poller.Store()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		if m.showLog {
			return m, tea.Batch(tickCmd(clockTick), loadLogCmd(m.logPath))
		}
		return m, tickCmd(clockTick)

	case logTailMsg:
		m.logTail = msg.lines
		if msg.err != nil {
			m.logTail = []string{"log unavailable: " + msg.err.Error()}
		}
		return m, nil

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		if m.snapshot.Status == state.StatusConnected {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		if m.poller == nil {
			return m, nil
		}
		if m.poller.Refresh(m.ctx) {
			m.notice = "Refreshing..."
		} else {
			m.notice = "Update already in progress"
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleDetails):
		m.hideDetails = !m.hideDetails
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLog):
		m.showLog = !m.showLog
		if m.showLog {
			return m, loadLogCmd(m.logPath)
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

func (m *Model) applyTheme() {
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
	m.help.Styles.FullKey = m.help.Styles.ShortKey
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted))
	m.help.Styles.FullDesc = m.help.Styles.ShortDesc
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, HideDetails: m.hideDetails}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs failed")
	}
}

// View implements tea.Model.
func (m Model) View() string {
	body := Render(RenderInput{
		Snapshot:    m.snapshot,
		Goal:        m.goal,
		Currency:    m.currency,
		Milestones:  m.milestones,
		Width:       m.width,
		Theme:       m.theme,
		HideDetails: m.hideDetails,
		Spinner:     m.spinner.View(),
	})
	if m.showLog {
		body += "\n\n" + m.logPane()
	}
	return body + "\n\n" + m.footer()
}

func (m Model) logPane() string {
	styles := m.theme.Styles()
	if m.logPath == "" {
		return " " + styles.FaintText.Render("logging is disabled (log_file is empty)")
	}
	lines := m.logTail
	if len(lines) == 0 {
		lines = []string{"no log entries yet"}
	}
	width := m.width - 4
	if width <= 0 {
		width = defaultWidth - 4
	}
	return styles.Panel.Width(width).Render(styles.MutedText.Render(strings.Join(lines, "\n")))
}

func (m Model) footer() string {
	styles := m.theme.Styles()
	parts := []string{
		styles.FaintText.Render("last update " + lastUpdatedAgo(m.snapshot.LastSuccess, m.now)),
	}
	if m.endpoint != "" {
		parts = append(parts, styles.FaintText.Render(m.endpoint))
	}
	if m.notice != "" {
		parts = append(parts, styles.WarningText.Render(m.notice))
	}
	return " " + strings.Join(parts, styles.FaintText.Render("  ·  ")) + "\n " + m.help.View(m.keys)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type logTailMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func loadLogCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Tail(path, logLines)
		return logTailMsg{lines: lines, err: err}
	}
}

// Run starts the Bubble Tea program. Every poll transition is forwarded to the
// program so the view redraws as soon as the store changes.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	opts.Context = ctx

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Poller != nil {
		opts.Poller.SetOnChange(func(s state.Snapshot) {
			p.Send(snapshotMsg(s))
		})
		opts.Poller.Start(ctx)
	}

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
