package ui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/five82/pledge/internal/progress"
	"github.com/five82/pledge/internal/state"
)

const (
	defaultWidth = 80
	minWidth     = 40

	glyphFill     = "█"
	glyphOverflow = "▓"
	glyphTrack    = "░"
	glyphReached  = "▲"
	glyphPending  = "△"

	photoPlaceholder = "Photo"
)

// RenderInput is everything the progress view depends on.
type RenderInput struct {
	Snapshot    state.Snapshot
	Goal        int64
	Currency    string
	Milestones  []progress.Milestone // ascending by threshold
	Width       int
	Theme       Theme
	Plain       bool   // no color, for piping
	HideDetails bool   // omit the milestone list
	Spinner     string // frame shown while connecting
}

// StatusText is the line shown for each connection state.
func StatusText(s state.Status) string {
	switch s {
	case state.StatusConnected:
		return "Connected to Google Sheets"
	case state.StatusConnecting:
		return "Connecting to Google Sheets..."
	case state.StatusError:
		return "Connection Error - Check Configuration"
	default:
		return "Waiting for first update"
	}
}

// Render draws the whole progress view. It reads nothing but in.
func Render(in RenderInput) string {
	width := in.Width
	if width <= 0 {
		width = defaultWidth
	}
	width = max(width, minWidth)

	styles := in.Theme.Styles()
	bg := NewBgStyle(in.Theme.Surface)
	if in.Plain {
		styles = plainStyles()
		bg = NewBgStyle("")
	}

	view := progress.Derive(in.Snapshot.Amount, in.Goal, in.Milestones)
	geo := newBarGeometry(width)
	r := renderer{in: in, styles: styles, bg: bg, view: view, geo: geo}

	lines := []string{
		r.header(width),
		"",
		r.totals(),
		r.bar(),
		r.markers(),
		r.next(),
	}
	if !in.HideDetails && len(view.Milestones) > 0 {
		lines = append(lines, "", r.detailIndex())
		lines = append(lines, r.details()...)
	}
	if line := r.errorLine(); line != "" {
		lines = append(lines, "", line)
	}
	return strings.Join(lines, "\n")
}

// barGeometry maps percentages to columns. Track is the 100% width; the bar
// can draw past it up to progress.MaxFillPercent.
type barGeometry struct {
	indent int
	track  int
	total  int
}

func newBarGeometry(width int) barGeometry {
	inner := width - 2
	track := inner * 100 / int(progress.MaxFillPercent)
	return barGeometry{
		indent: 1,
		track:  track,
		total:  int(math.Round(float64(track) * progress.MaxFillPercent / 100)),
	}
}

// column returns the cell for percent, which may be past the track.
func (g barGeometry) column(percent float64) int {
	return int(math.Round(percent / 100 * float64(g.track)))
}

type renderer struct {
	in     RenderInput
	styles Styles
	bg     BgStyle
	view   progress.View
	geo    barGeometry
}

func (r renderer) amount(n int64) string {
	return progress.FormatAmount(r.in.Currency, n)
}

func (r renderer) header(width int) string {
	snap := r.in.Snapshot
	s := r.styles

	var indicator string
	statusStyle := s.MutedText
	switch snap.Status {
	case state.StatusConnected:
		indicator, statusStyle = "●", s.SuccessText
	case state.StatusConnecting:
		indicator, statusStyle = "◌", s.WarningText
		if r.in.Spinner != "" {
			indicator = strings.TrimSpace(r.in.Spinner)
		}
	case state.StatusError:
		indicator, statusStyle = "●", s.DangerText
	default:
		indicator = "○"
	}

	parts := []string{
		r.bg.Render("pledge", s.Logo),
		r.bg.Render(indicator+" "+StatusText(snap.Status), statusStyle),
	}
	if !snap.LastSuccess.IsZero() {
		parts = append(parts, r.bg.Render("updated "+snap.LastSuccess.Format("15:04:05"), s.MutedText))
	}
	if snap.IsStale() {
		parts = append(parts, r.bg.Render(fmt.Sprintf("stale (%d failed polls)", snap.ConsecutiveFailures), s.WarningText))
	}
	return s.Header.Render(r.bg.FillLine(r.bg.Join(parts, 2), width-2))
}

func (r renderer) totals() string {
	s := r.styles
	v := r.view
	return " " + strings.Join([]string{
		s.Amount.Render(r.amount(v.Amount)),
		s.MutedText.Render("raised of"),
		s.Text.Render(r.amount(v.Goal)),
		s.MutedText.Render("·"),
		s.Text.Render(v.PercentLabel()),
		s.MutedText.Render("·"),
		s.MutedText.Render(fmt.Sprintf("%d/%d milestones", v.AchievedCount(), len(v.Milestones))),
	}, " ")
}

func (r renderer) bar() string {
	g := r.geo
	fill := min(g.column(r.view.FillWidth), g.total)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", g.indent))
	b.WriteString(r.styles.BarFill.Render(strings.Repeat(glyphFill, min(fill, g.track))))
	if fill < g.track {
		b.WriteString(r.styles.BarTrack.Render(strings.Repeat(glyphTrack, g.track-fill)))
	} else if fill > g.track {
		b.WriteString(r.styles.BarOverflow.Render(strings.Repeat(glyphOverflow, fill-g.track)))
	}
	return b.String()
}

// markers puts one glyph per milestone under the bar at its share of the goal.
// Thresholds beyond the drawable width are left off.
func (r renderer) markers() string {
	g := r.geo
	cells := make([]string, g.total)
	for i := range cells {
		cells[i] = " "
	}
	for _, m := range r.view.Milestones {
		col := g.column(m.MarkerPosition)
		if col < 0 || col >= g.total {
			continue
		}
		if m.Achieved {
			cells[col] = r.styles.SuccessText.Render(glyphReached)
		} else {
			cells[col] = r.styles.FaintText.Render(glyphPending)
		}
	}
	return strings.TrimRight(strings.Repeat(" ", g.indent)+strings.Join(cells, ""), " ")
}

func (r renderer) next() string {
	s := r.styles
	if r.view.Next == nil {
		return " " + strings.Join([]string{
			s.SuccessText.Render("Goal reached! Every milestone unlocked."),
			s.MutedText.Render("·"),
			s.Text.Render(r.amount(r.view.Remaining)),
			s.MutedText.Render("to go"),
		}, " ")
	}
	n := r.view.Next
	return " " + strings.Join([]string{
		s.MutedText.Render("Next:"),
		s.Text.Render(n.Name),
		s.MutedText.Render("at"),
		s.Text.Render(r.amount(n.Threshold)),
		s.MutedText.Render("·"),
		s.WarningText.Render(r.amount(r.view.Remaining)),
		s.MutedText.Render("to go"),
	}, " ")
}

// detailIndex spreads milestone numbers evenly across the track so the list
// below reads left to right like the bar.
func (r renderer) detailIndex() string {
	g := r.geo
	cells := []rune(strings.Repeat(" ", g.track))
	for _, m := range r.view.Milestones {
		label := []rune(fmt.Sprintf("%d", m.Index+1))
		col := int(math.Round(m.DetailPosition / 100 * float64(g.track-1)))
		col = min(col, g.track-len(label))
		col = max(col, 0)
		copy(cells[col:], label)
	}
	return strings.Repeat(" ", g.indent) + r.styles.FaintText.Render(strings.TrimRight(string(cells), " "))
}

func (r renderer) details() []string {
	s := r.styles
	nameWidth := 0
	for _, m := range r.view.Milestones {
		nameWidth = max(nameWidth, len([]rune(m.Name)))
	}

	lines := make([]string, 0, len(r.view.Milestones))
	for _, m := range r.view.Milestones {
		mark, markStyle, nameStyle := glyphPending, s.FaintText, s.MutedText
		if m.Achieved {
			mark, markStyle, nameStyle = glyphReached, s.SuccessText, s.Text
		}
		photo := photoPlaceholder
		if strings.TrimSpace(m.Image) != "" {
			photo = filepath.Base(m.Image)
		}
		name := m.Name + strings.Repeat(" ", nameWidth-len([]rune(m.Name)))
		lines = append(lines, fmt.Sprintf(" %s %s %s  %s  %s",
			s.FaintText.Render(fmt.Sprintf("%2d", m.Index+1)),
			markStyle.Render(mark),
			nameStyle.Render(name),
			s.Text.Render(fmt.Sprintf("%*s", len(r.amount(r.in.Goal)), r.amount(m.Threshold))),
			s.FaintText.Render("["+photo+"]"),
		))
	}
	return lines
}

func (r renderer) errorLine() string {
	snap := r.in.Snapshot
	if snap.Status != state.StatusError || snap.LastError == nil {
		return ""
	}
	line := " " + r.styles.DangerText.Render(snap.LastError.Error())
	if snap.HasAmount {
		line += " " + r.styles.MutedText.Render("(showing last known total)")
	}
	return line
}

// lastUpdatedAgo formats how long ago t was, for the footer.
func lastUpdatedAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t).Truncate(time.Second)
	if d < time.Second {
		return "just now"
	}
	return d.String() + " ago"
}
