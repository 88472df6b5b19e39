// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

// Package analytics implements the query engine over the canonical movie
// table. An Engine is constructed against a table location, reads it lazily
// on first query, and memoizes the result (or the failure) for its
// lifetime. The loaded table is never mutated, so concurrent queries need
// no locking beyond the one-time load.
package analytics

import (
	"errors"
	"fmt"
	"sync"

	"github.com/reelytics/reelytics/internal/dataset"
	"github.com/reelytics/reelytics/internal/logging"
	"github.com/reelytics/reelytics/internal/metrics"
	"github.com/reelytics/reelytics/internal/models"
)

var (
	// ErrDataUnavailable indicates the canonical table could not be loaded.
	// It is sticky: once an Engine instance fails to load, every subsequent
	// query on that instance fails with this condition. The boundary layer
	// maps it to a server-unavailable response, not a client error.
	ErrDataUnavailable = errors.New("canonical dataset unavailable")

	// ErrInvalidLimit indicates a non-positive limit parameter.
	ErrInvalidLimit = errors.New("limit must be at least 1")

	// ErrInvalidMinVotes indicates a negative minVotes parameter.
	ErrInvalidMinVotes = errors.New("min votes must not be negative")
)

// Engine answers the five analytical queries against one canonical table.
type Engine struct {
	path string

	// Lazy-load state: once resolves the concurrent first-access race so
	// the table is read exactly once per instance; table/loadErr hold the
	// memoized outcome.
	once    sync.Once
	table   []models.CanonicalRecord
	loadErr error
}

// NewEngine creates an engine for the canonical table at path. The table is
// not read here; the first query triggers the load.
func NewEngine(path string) *Engine {
	return &Engine{path: path}
}

// load reads the canonical table on first use and memoizes the result.
func (e *Engine) load() ([]models.CanonicalRecord, error) {
	e.once.Do(func() {
		records, err := dataset.ReadTable(e.path)
		if err != nil {
			e.loadErr = fmt.Errorf("%w: %v", ErrDataUnavailable, err)
			logging.Error().Err(err).Str("path", e.path).
				Msg("Failed to load canonical table; run preprocessing first")
			return
		}
		e.table = records
		metrics.DatasetRows.Set(float64(len(records)))
		logging.Info().Int("rows", len(records)).Str("path", e.path).
			Msg("Canonical table loaded")
	})
	return e.table, e.loadErr
}

// Available reports whether the engine can serve queries. Calling it
// triggers the lazy load, so readiness probes surface a missing dataset.
func (e *Engine) Available() bool {
	_, err := e.load()
	return err == nil
}

// Rows returns the number of canonical rows held, or 0 when the table is
// unavailable.
func (e *Engine) Rows() int {
	table, err := e.load()
	if err != nil {
		return 0
	}
	return len(table)
}
