package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/pledge/internal/donation"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRun_OnceSimulated(t *testing.T) {
	path := writeConfig(t, "simulate = true\nsimulate_step = 5000000\nlog_file = \"\"\n")

	var out bytes.Buffer
	err := Run(context.Background(), Options{ConfigPath: path, Once: true, Out: &out})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for _, want := range []string{"Rp 5,000,000", "25.0%", "Connected to Google Sheets"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_OnceAgainstEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"amount":9500000,"success":true}`))
	}))
	defer srv.Close()

	path := writeConfig(t, "api_url = \""+srv.URL+"/sheet-data\"\nlog_file = \"\"\n")

	var out bytes.Buffer
	if err := Run(context.Background(), Options{ConfigPath: path, Once: true, Out: &out}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "Rp 9,500,000") || !strings.Contains(out.String(), "5/10 milestones") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRun_OnceProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"amount":0,"success":false,"error":"quota exceeded"}`))
	}))
	defer srv.Close()

	path := writeConfig(t, "api_url = \""+srv.URL+"\"\nlog_file = \"\"\n")

	var out bytes.Buffer
	err := Run(context.Background(), Options{ConfigPath: path, Once: true, Out: &out})
	if !errors.Is(err, ErrPollFailed) || !errors.Is(err, donation.ErrProviderUnavailable) {
		t.Fatalf("Run error = %v, want poll failure from provider", err)
	}
	if !strings.Contains(out.String(), "Connection Error - Check Configuration") {
		t.Fatalf("output missing error status:\n%s", out.String())
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "goal = 0\n")
	if err := Run(context.Background(), Options{ConfigPath: path, Once: true}); err == nil {
		t.Fatalf("Run returned nil error for goal = 0")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, "poll_interval_seconds = 10\n")
	cfg, err := loadConfig(Options{ConfigPath: path, PollEvery: 4, Simulate: true})
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.PollInterval.Seconds() != 4 || cfg.RequestTimeout.Seconds() != 2 {
		t.Fatalf("interval/timeout = %v/%v, want 4s/2s", cfg.PollInterval, cfg.RequestTimeout)
	}
	if !cfg.Simulate {
		t.Fatalf("Simulate = false, want forced on")
	}
	fetcher, source, err := newFetcher(cfg)
	if err != nil {
		t.Fatalf("newFetcher returned error: %v", err)
	}
	if _, ok := fetcher.(*donation.Simulator); !ok || source != "simulated" {
		t.Fatalf("fetcher = %T (%s), want simulator", fetcher, source)
	}
}
