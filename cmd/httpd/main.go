// Command httpd runs the leadscore HTTP server and scoring poller.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/scoutline/leadscore/internal/bootstrap"
	infralogger "github.com/scoutline/leadscore/internal/infra/logger"
)

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	logger, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting leadscore HTTP server",
		infralogger.Int("port", cfg.Service.Port),
		infralogger.Bool("debug", cfg.Service.Debug),
	)

	comps, err := bootstrap.NewHTTPComponents(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize components", infralogger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = comps.DB.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err = comps.Poller.Start(ctx); err != nil {
		logger.Error("Failed to start poller", infralogger.Error(err))
		os.Exit(1)
	}

	serverErrors := comps.Server.StartAsync()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		logger.Error("Server error", infralogger.Error(err))
		comps.Poller.Stop()
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", infralogger.String("signal", sig.String()))
	}

	comps.Poller.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), bootstrap.HTTPShutdownTimeout())
	defer shutdownCancel()

	if err = comps.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", infralogger.Error(err))
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
