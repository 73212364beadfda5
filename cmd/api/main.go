package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/coooow/VibeMatcher/internal/adapters/rest"
	"github.com/coooow/VibeMatcher/internal/app"
	"github.com/coooow/VibeMatcher/internal/config"
	"github.com/coooow/VibeMatcher/internal/core/services"
	"github.com/coooow/VibeMatcher/internal/logging"
	"github.com/coooow/VibeMatcher/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// 1. Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogConfig())

	// 2. Catalog source
	source, closeSource, err := app.OpenSource(cfg.Catalog)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("failed to open catalog source")
	}
	defer closeSource()

	// 3. Core service; the catalog is loaded eagerly so a bad source
	// stops the process before it starts serving.
	svc := services.NewMatcher(source, app.MatcherOptions(cfg.Matcher))
	if _, err := svc.Load(context.Background()); err != nil {
		logging.Fatal().Err(err).Msg("failed to load catalog")
	}

	// 4. Batch workers and HTTP handler
	pool := worker.NewPool(svc, cfg.Worker.QueueSize)
	pool.Start(cfg.Worker.Workers)
	defer pool.Stop()

	handler := rest.NewHandler(svc, pool)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Msg("VibeMatcher API listening")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			logging.Error().Err(err).Msg("server failed")
			return
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("shutdown error")
		}
	}
}
