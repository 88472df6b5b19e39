// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

// Package main is the entry point for the Reelytics cleaning pipeline.
//
// It reads the raw movie CSV, applies the cleaning and genre-explosion
// rules, and writes the canonical table consumed by the API server. The
// run always recomputes from the full raw snapshot; rerunning on the same
// input produces byte-identical output.
//
// Usage:
//
//	preprocess [-raw path] [-out path]
//
// Flags override the data.raw_path and data.cleaned_path config values.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/reelytics/reelytics/internal/config"
	"github.com/reelytics/reelytics/internal/dataset"
	"github.com/reelytics/reelytics/internal/logging"
)

func main() {
	rawFlag := flag.String("raw", "", "path to the raw movie CSV (overrides config)")
	outFlag := flag.String("out", "", "path for the cleaned CSV (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	rawPath := cfg.Data.RawPath
	if *rawFlag != "" {
		rawPath = *rawFlag
	}
	outPath := cfg.Data.CleanedPath
	if *outFlag != "" {
		outPath = *outFlag
	}

	pipeline := dataset.NewPipeline(rawPath, outPath)
	stats, err := pipeline.Run(context.Background())
	if err != nil {
		logging.Error().Err(err).Msg("Pipeline failed")
		os.Exit(1)
	}

	logging.Info().
		Int("rows_in", stats.RowsIn).
		Int("rows_dropped", stats.RowsDropped).
		Int("rows_written", stats.RowsOut).
		Msg("Pipeline executed successfully")
}
