// Command server runs the reelhouse catalog and accounts API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stwalsh4118/reelhouse/internal/auth"
	"github.com/stwalsh4118/reelhouse/internal/config"
	"github.com/stwalsh4118/reelhouse/internal/db"
	"github.com/stwalsh4118/reelhouse/internal/logger"
	"github.com/stwalsh4118/reelhouse/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Default logger until configuration is known
	logger.Init("info", false)

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid token configuration")
	}

	database, err := db.Open(cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	if err := database.Migrate(cfg.Database.MigrationsPath); err != nil {
		logger.Log.Fatal().Err(err).Str("path", cfg.Database.MigrationsPath).Msg("Failed to run migrations")
	}

	srv := server.New(cfg, database, tokens)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		logger.Log.Error().Err(err).Msg("HTTP server failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
