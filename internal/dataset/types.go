// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

// Package dataset implements the movie cleaning pipeline: it loads a raw
// tabular CSV, normalizes and coerces its fields, explodes multi-valued
// genre fields into one row per (movie, genre) pair, and writes a
// deterministically ordered canonical table.
//
// The transform rules are:
//   - rows with an unparseable release date are dropped (hard filter,
//     counted as a diagnostic, never an error)
//   - malformed or missing numeric fields coerce to 0, never drop a row
//   - missing language becomes "unknown"; values are lower-cased and trimmed
//   - missing genre becomes "Unknown"; the field splits on commas, each
//     element is trimmed, and blank elements become "Unknown"
//   - the final table is sorted by release date ascending, then title
//     ascending
//
// Each rule is an explicit function over record slices so it can be unit
// tested in isolation; Clean composes them in pipeline order.
package dataset

import "errors"

// Sentinel values substituted for missing categorical data.
const (
	// UnknownLanguage replaces a missing or blank original language.
	UnknownLanguage = "unknown"

	// UnknownGenre replaces a missing genre field or a blank genre segment.
	UnknownGenre = "Unknown"
)

// ErrSourceNotFound indicates the input file is absent or unreadable.
// This is fatal to the operation that triggered it and is never retried.
var ErrSourceNotFound = errors.New("dataset source not found")

// RawRecord is one unparsed row from the source file. All fields are kept
// as strings; type coercion is the cleaning pipeline's job.
type RawRecord struct {
	Title            string
	ReleaseDate      string
	Popularity       string
	VoteCount        string
	VoteAverage      string
	OriginalLanguage string
	Genre            string
}

// CleanStats is the row accounting for one cleaning run.
type CleanStats struct {
	// RowsIn is the number of raw rows consumed.
	RowsIn int

	// RowsDropped is the number of rows removed for unparseable dates.
	RowsDropped int

	// RowsOut is the number of canonical rows after genre explosion.
	RowsOut int
}
