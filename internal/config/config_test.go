package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.Goal != defaultGoal {
		t.Fatalf("Goal = %d, want %d", cfg.Goal, defaultGoal)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Fatalf("PollInterval = %v, want 10s", cfg.PollInterval)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
	if len(cfg.Milestones) != 10 {
		t.Fatalf("len(Milestones) = %d, want 10", len(cfg.Milestones))
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_ParsesAndSortsMilestones(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  https://tracker.example.com/api/sheet-data  "
goal = 1000
currency = "USD"
poll_interval_seconds = 4
log_file = ""

[[milestones]]
name = "Second"
amount = 500

[[milestones]]
name = " First "
amount = 100
image = "images/first.jpg"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://tracker.example.com/api/sheet-data" {
		t.Fatalf("APIURL = %q, want trimmed url", cfg.APIURL)
	}
	if cfg.Goal != 1000 || cfg.Currency != "USD" {
		t.Fatalf("Goal/Currency = %d/%q, want 1000/USD", cfg.Goal, cfg.Currency)
	}
	if cfg.PollInterval != 4*time.Second || cfg.RequestTimeout != 2*time.Second {
		t.Fatalf("PollInterval/RequestTimeout = %v/%v, want 4s/2s", cfg.PollInterval, cfg.RequestTimeout)
	}
	if cfg.LogFile != "" {
		t.Fatalf("LogFile = %q, want empty (disabled)", cfg.LogFile)
	}
	if len(cfg.Milestones) != 2 {
		t.Fatalf("len(Milestones) = %d, want 2", len(cfg.Milestones))
	}
	if cfg.Milestones[0].Name != "First" || cfg.Milestones[0].Threshold != 100 || cfg.Milestones[0].Image != "images/first.jpg" {
		t.Fatalf("Milestones[0] = %#v, want First/100", cfg.Milestones[0])
	}
	if cfg.Milestones[1].Name != "Second" {
		t.Fatalf("Milestones[1] = %#v, want Second", cfg.Milestones[1])
	}
}

func TestParse_ExplicitTimeout(t *testing.T) {
	cfg, err := Parse([]byte("poll_interval_seconds = 10\nrequest_timeout_seconds = 3\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"zero goal":         "goal = 0\n",
		"negative goal":     "goal = -5\n",
		"negative interval": "poll_interval_seconds = -1\n",
		"duplicate amount":  "[[milestones]]\nname = \"a\"\namount = 5\n[[milestones]]\nname = \"b\"\namount = 5\n",
		"zero threshold":    "[[milestones]]\nname = \"a\"\namount = 0\n",
		"unnamed milestone": "[[milestones]]\namount = 10\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(body)); err == nil {
				t.Fatalf("Parse(%q) returned nil error, want error", body)
			}
		})
	}
}

func TestNormalize_RequiresAPIURLUnlessSimulating(t *testing.T) {
	cfg := Default()
	cfg.APIURL = ""
	if err := cfg.normalize(); err == nil {
		t.Fatalf("normalize returned nil error, want api_url error")
	}
}

func TestParse_SimulateWithoutAPIURL(t *testing.T) {
	cfg := Default()
	cfg.APIURL = ""
	cfg.Simulate = true
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`goal = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestWithPollInterval(t *testing.T) {
	cfg := Default().WithPollInterval(30 * time.Second)
	if cfg.PollInterval != 30*time.Second || cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("PollInterval/RequestTimeout = %v/%v, want 30s/15s", cfg.PollInterval, cfg.RequestTimeout)
	}
	same := Default().WithPollInterval(0)
	if same.PollInterval != defaultPollInterval {
		t.Fatalf("WithPollInterval(0) changed interval to %v", same.PollInterval)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLoad_RangeIsInformational(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Range != "Sheet1!C2" {
		t.Fatalf("Range = %q, want Sheet1!C2", cfg.Range)
	}

	// The tracker never reads the sheet; pledged's RANGE picks the cell.
	if defaultRange == defaultServerRange {
		t.Fatalf("tracker and server share default range %q", defaultRange)
	}
}
