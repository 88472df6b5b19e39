// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

package dataset

import (
	"context"
	"time"

	"github.com/reelytics/reelytics/internal/logging"
	"github.com/reelytics/reelytics/internal/metrics"
)

// Pipeline runs the end-to-end cleaning pass: read raw source, clean and
// explode, write the canonical table. It is constructed with explicit paths
// so it stays testable with arbitrary fixtures.
type Pipeline struct {
	rawPath    string
	outputPath string
}

// NewPipeline creates a cleaning pipeline reading from rawPath and writing
// the canonical table to outputPath.
func NewPipeline(rawPath, outputPath string) *Pipeline {
	return &Pipeline{
		rawPath:    rawPath,
		outputPath: outputPath,
	}
}

// Run executes the pipeline once. The operation is idempotent: rerunning on
// the same raw input produces byte-identical output. A missing raw source
// is fatal (ErrSourceNotFound) and nothing is written; row-level
// malformation is absorbed by the drop/coerce rules and only counted.
func (p *Pipeline) Run(ctx context.Context) (CleanStats, error) {
	start := time.Now()
	log := logging.Ctx(ctx)

	log.Info().Str("path", p.rawPath).Msg("Loading raw dataset")
	raws, err := ReadRaw(p.rawPath)
	if err != nil {
		return CleanStats{}, err
	}
	metrics.PipelineRowsRead.Add(float64(len(raws)))

	records, stats := Clean(raws)
	metrics.PipelineRowsDropped.Add(float64(stats.RowsDropped))
	log.Info().
		Int("rows_in", stats.RowsIn).
		Int("rows_dropped", stats.RowsDropped).
		Int("rows_out", stats.RowsOut).
		Msg("Cleaning complete")

	if err := WriteTable(p.outputPath, records); err != nil {
		return stats, err
	}
	metrics.PipelineRowsWritten.Add(float64(stats.RowsOut))
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())

	log.Info().
		Str("path", p.outputPath).
		Dur("elapsed", time.Since(start)).
		Msg("Canonical table written")
	return stats, nil
}
