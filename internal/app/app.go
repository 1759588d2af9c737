package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/five82/pledge/internal/config"
	"github.com/five82/pledge/internal/donation"
	"github.com/five82/pledge/internal/logging"
	"github.com/five82/pledge/internal/prefs"
	"github.com/five82/pledge/internal/state"
	"github.com/five82/pledge/internal/ui"
)

// Options configure the pledge application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pledge/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
	Simulate   bool   // force the simulated fetcher
	Debug      bool
	Once       bool      // poll once, print, exit
	Out        io.Writer // -once output; nil means stdout
}

// ErrPollFailed is returned by a -once run whose only poll failed.
var ErrPollFailed = errors.New("poll failed")

// Run boots the tracker until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closer, err := logging.NewFile(cfg.LogFile, opts.Debug)
	if err != nil {
		// The log file is a convenience; keep going without it.
		fmt.Fprintf(os.Stderr, "pledge: %v (logging disabled)\n", err)
	}
	defer func() { _ = closer.Close() }()

	fetcher, endpoint, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	logger.Info().
		Str("endpoint", endpoint).
		Dur("interval", cfg.PollInterval).
		Int64("goal", cfg.Goal).
		Int("milestones", len(cfg.Milestones)).
		Msg("starting tracker")

	store := &state.Store{}
	poller := NewPoller(store, fetcher, PollerOptions{
		Interval: cfg.PollInterval,
		Timeout:  cfg.RequestTimeout,
		Logger:   logger,
	})

	if opts.Once {
		return runOnce(ctx, cfg, poller, opts.Out)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		poller.Wait()
	}()

	return ui.Run(ui.Options{
		Context:    ctx,
		Poller:     poller,
		Goal:       cfg.Goal,
		Currency:   cfg.Currency,
		Milestones: cfg.Milestones,
		Endpoint:   endpoint,
		LogPath:    cfg.LogFile,
		Prefs:      prefs.Load(opts.PrefsPath),
		PrefsPath:  opts.PrefsPath,
		Logger:     logger,
	})
}

func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load pledge config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg = cfg.WithPollInterval(time.Duration(opts.PollEvery) * time.Second)
	}
	if opts.Simulate {
		cfg.Simulate = true
	}
	return cfg, nil
}

// newFetcher picks the simulator or the endpoint client. The second value
// describes the source for logs and the footer.
func newFetcher(cfg config.Config) (donation.AmountFetcher, string, error) {
	if cfg.Simulate {
		return donation.NewSimulator(cfg.SimulateStep, cfg.Goal), "simulated", nil
	}
	client, err := donation.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return nil, "", fmt.Errorf("init donation client: %w", err)
	}
	return client, client.Endpoint(), nil
}

// runOnce polls a single time and prints the plain view.
func runOnce(ctx context.Context, cfg config.Config, poller *Poller, out io.Writer) error {
	if out == nil {
		out = os.Stdout
	}
	_, pollErr := poller.PollOnce(ctx)

	view := ui.Render(ui.RenderInput{
		Snapshot:   poller.Store().Snapshot(),
		Goal:       cfg.Goal,
		Currency:   cfg.Currency,
		Milestones: cfg.Milestones,
		Plain:      true,
	})
	if _, err := fmt.Fprintln(out, view); err != nil {
		return fmt.Errorf("write view: %w", err)
	}
	if pollErr != nil {
		return fmt.Errorf("%w: %w", ErrPollFailed, pollErr)
	}
	return nil
}
