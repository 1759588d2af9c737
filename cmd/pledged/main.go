package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/five82/pledge/internal/config"
	"github.com/five82/pledge/internal/logging"
	"github.com/five82/pledge/internal/server"
	"github.com/five82/pledge/internal/sheets"
)

func main() {
	os.Exit(run())
}

func run() int {
	envFile := flag.String("env", "", "env file to load before reading the environment (optional, defaults to ./.env)")
	flag.Parse()

	cfg, err := config.LoadServer(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pledged: %v\n", err)
		return 1
	}
	logger := logging.New(os.Stdout, cfg.AppEnv)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reader, err := sheets.NewClient(ctx, cfg.Credentials)
	if err != nil {
		logger.Error().Err(err).Msg("init sheets client")
		return 1
	}

	handler := server.NewHandler(reader, server.HandlerOptions{
		SpreadsheetID: cfg.SpreadsheetID,
		Range:         cfg.Range,
		Timeout:       cfg.ProviderTimeout,
		Logger:        logger,
	})
	srv := server.NewHTTPServer(cfg, server.NewRouter(handler, logger, cfg.CORSOrigins))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", srv.Addr()).
			Str("range", cfg.Range).
			Msg("serving sheet data")
		return srv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		return 1
	}
	return 0
}
