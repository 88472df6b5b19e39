// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

// Package main is the entry point for the Reelytics API server.
//
// The server exposes five read-only analytics endpoints over the cleaned
// movie dataset produced by cmd/preprocess, plus health and Prometheus
// metrics endpoints. The canonical table is loaded lazily on the first
// query and held in memory for the lifetime of the process.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config.yaml, built-in defaults.
// See internal/config for the full set of keys.
//
// The server shuts down gracefully on SIGINT and SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/reelytics/reelytics/internal/analytics"
	"github.com/reelytics/reelytics/internal/api"
	"github.com/reelytics/reelytics/internal/config"
	"github.com/reelytics/reelytics/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	engine := analytics.NewEngine(cfg.Data.CleanedPath)
	handler := api.NewHandler(engine, cfg)
	router := api.NewRouter(handler, cfg)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info().
			Str("addr", srv.Addr).
			Str("dataset", cfg.Data.CleanedPath).
			Msg("Starting Reelytics API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
		os.Exit(1)
	}
	logging.Info().Msg("Server stopped")
}
