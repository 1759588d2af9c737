package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/pledge/internal/progress"
)

// Config captures everything the tracker needs at startup. It is immutable
// once loaded.
type Config struct {
	APIURL         string
	SpreadsheetID  string
	Range          string // informational; pledged's RANGE selects the cell
	Goal           int64
	Currency       string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	Simulate       bool
	SimulateStep   int64
	LogFile        string
	Milestones     []progress.Milestone
}

// MilestoneConfig is one [[milestones]] table.
type MilestoneConfig struct {
	Name   string `toml:"name"`
	Amount int64  `toml:"amount"`
	Image  string `toml:"image"`
}

const (
	defaultConfigPath   = "~/.config/pledge/config.toml"
	defaultLogFile      = "~/.local/state/pledge/pledge.log"
	defaultAPIURL       = "http://127.0.0.1:3000/api/sheet-data"
	defaultRange        = "Sheet1!C2"
	defaultGoal         = 20_000_000
	defaultCurrency     = "Rp"
	defaultPollInterval = 10 * time.Second
)

// DefaultMilestones returns the milestone ladder used when the config file has none.
func DefaultMilestones() []progress.Milestone {
	return []progress.Milestone{
		{Name: "Mr. Osborne", Threshold: 2_000_000, Image: "images/milestone1.jpg"},
		{Name: "Mr. Feltstrom", Threshold: 3_000_000, Image: "images/milestone2.jpg"},
		{Name: "Mr. Taggart", Threshold: 5_000_000, Image: "images/milestone3.jpg"},
		{Name: "Mr. O'Rourke", Threshold: 7_000_000, Image: "images/milestone4.jpg"},
		{Name: "Mr. Kumar", Threshold: 9_500_000, Image: "images/milestone5.jpg"},
		{Name: "Mr. Eaglestone", Threshold: 12_000_000, Image: "images/milestone6.jpg"},
		{Name: "Mr. Popple", Threshold: 15_000_000, Image: "images/milestone7.jpg"},
		{Name: "Ms. Kilpatrick", Threshold: 18_000_000, Image: "images/milestone8.jpg"},
		{Name: "Mr. Darlison", Threshold: 19_000_000, Image: "images/milestone9.jpg"},
		{Name: "Ibu Wina", Threshold: 20_000_000, Image: "images/milestone10.jpg"},
	}
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		Range:          defaultRange,
		Goal:           defaultGoal,
		Currency:       defaultCurrency,
		PollInterval:   defaultPollInterval,
		RequestTimeout: defaultPollInterval / 2,
		SimulateStep:   500_000,
		LogFile:        mustExpand(defaultLogFile),
		Milestones:     DefaultMilestones(),
	}
}

// Load locates and parses the tracker config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(bytes)
}

// Parse decodes TOML config bytes, applies defaults, and validates the result.
func Parse(data []byte) (Config, error) {
	var raw struct {
		APIURL                string            `toml:"api_url"`
		SpreadsheetID         string            `toml:"spreadsheet_id"`
		Range                 string            `toml:"range"`
		Goal                  *int64            `toml:"goal"`
		Currency              *string           `toml:"currency"`
		PollIntervalSeconds   int               `toml:"poll_interval_seconds"`
		RequestTimeoutSeconds int               `toml:"request_timeout_seconds"`
		Simulate              bool              `toml:"simulate"`
		SimulateStep          int64             `toml:"simulate_step"`
		LogFile               *string           `toml:"log_file"`
		Milestones            []MilestoneConfig `toml:"milestones"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	cfg.SpreadsheetID = strings.TrimSpace(raw.SpreadsheetID)
	if v := strings.TrimSpace(raw.Range); v != "" {
		cfg.Range = v
	}
	if raw.Goal != nil {
		cfg.Goal = *raw.Goal
	}
	if raw.Currency != nil {
		cfg.Currency = strings.TrimSpace(*raw.Currency)
	}
	if raw.PollIntervalSeconds < 0 || raw.RequestTimeoutSeconds < 0 {
		return Config{}, fmt.Errorf("poll_interval_seconds and request_timeout_seconds must not be negative")
	}
	if raw.PollIntervalSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollIntervalSeconds) * time.Second
	}
	cfg.RequestTimeout = cfg.PollInterval / 2
	if raw.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
	}
	cfg.Simulate = raw.Simulate
	if raw.SimulateStep > 0 {
		cfg.SimulateStep = raw.SimulateStep
	}
	if raw.LogFile != nil {
		cfg.LogFile = ""
		if v := strings.TrimSpace(*raw.LogFile); v != "" {
			cfg.LogFile = mustExpand(v)
		}
	}
	if len(raw.Milestones) > 0 {
		cfg.Milestones = make([]progress.Milestone, 0, len(raw.Milestones))
		for _, m := range raw.Milestones {
			cfg.Milestones = append(cfg.Milestones, progress.Milestone{
				Name:      strings.TrimSpace(m.Name),
				Threshold: m.Amount,
				Image:     strings.TrimSpace(m.Image),
			})
		}
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithPollInterval returns a copy using a different interval. The request
// timeout is rescaled to half of it.
func (c Config) WithPollInterval(d time.Duration) Config {
	if d <= 0 {
		return c
	}
	c.PollInterval = d
	c.RequestTimeout = d / 2
	return c
}

// normalize sorts milestones by threshold and rejects values the display
// cannot represent.
func (c *Config) normalize() error {
	if c.Goal <= 0 {
		return fmt.Errorf("goal must be positive, got %d", c.Goal)
	}
	if !c.Simulate && strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is required unless simulate is enabled")
	}

	slices.SortStableFunc(c.Milestones, func(a, b progress.Milestone) int {
		switch {
		case a.Threshold < b.Threshold:
			return -1
		case a.Threshold > b.Threshold:
			return 1
		default:
			return 0
		}
	})
	for i, m := range c.Milestones {
		if m.Threshold <= 0 {
			return fmt.Errorf("milestone %q: amount must be positive", m.Name)
		}
		if m.Name == "" {
			return fmt.Errorf("milestone at %d: name is required", m.Threshold)
		}
		if i > 0 && c.Milestones[i-1].Threshold == m.Threshold {
			return fmt.Errorf("milestones %q and %q share amount %d", c.Milestones[i-1].Name, m.Name, m.Threshold)
		}
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
