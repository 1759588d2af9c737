package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/pledge/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override pledge config path (optional)")
	pollSeconds := flag.Int("poll", 0, "poll interval in seconds (optional, defaults to 10s)")
	once := flag.Bool("once", false, "poll once, print the progress view and exit")
	simulate := flag.Bool("simulate", false, "use simulated totals instead of the sheet-data endpoint")
	debug := flag.Bool("debug", false, "write debug entries to the log file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		Simulate:   *simulate,
		Debug:      *debug,
		Once:       *once,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "pledge: %v\n", err)
		if errors.Is(err, app.ErrPollFailed) {
			return 2
		}
		return 1
	}
	return 0
}
