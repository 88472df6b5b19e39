// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reelytics/reelytics/internal/models"
)

// Canonical column names, also accepted (case-insensitively) in raw input.
const (
	colTitle       = "title"
	colReleaseDate = "release_date"
	colPopularity  = "popularity"
	colVoteCount   = "vote_count"
	colVoteAverage = "vote_average"
	colLanguage    = "original_language"
	colGenre       = "genre"
)

// requiredColumns must be present in a raw source file. The language and
// genre columns may be absent entirely; their values then default to the
// sentinels during cleaning.
var requiredColumns = []string{
	colTitle, colReleaseDate, colPopularity, colVoteCount, colVoteAverage,
}

// ReadRaw loads the raw movie dataset from path. A missing or unreadable
// file returns ErrSourceNotFound; malformed field values are not an error
// here, they are absorbed by the cleaning rules later.
func ReadRaw(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceNotFound, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are row-level malformation, not fatal

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	cols, err := mapHeader(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var records []RawRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		records = append(records, RawRecord{
			Title:            field(row, cols, colTitle),
			ReleaseDate:      field(row, cols, colReleaseDate),
			Popularity:       field(row, cols, colPopularity),
			VoteCount:        field(row, cols, colVoteCount),
			VoteAverage:      field(row, cols, colVoteAverage),
			OriginalLanguage: field(row, cols, colLanguage),
			Genre:            field(row, cols, colGenre),
		})
	}
	return records, nil
}

// ReadTable loads a canonical table written by WriteTable. Field values pass
// through the same coercion rules as raw cleaning, so re-reading our own
// output reproduces the identical row set.
func ReadTable(path string) ([]models.CanonicalRecord, error) {
	raws, err := ReadRaw(path)
	if err != nil {
		return nil, err
	}
	records, _ := Clean(raws)
	return records, nil
}

// mapHeader resolves column names to their positions. Header names are
// normalized (lower-case, trimmed, spaces to underscores) so both raw-source
// headers like "Release_Date" and canonical headers match.
func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[normalizeHeader(name)] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return cols, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

// field returns the value of the named column, or "" when the column is
// absent or the row is too short. Missing values are handled by the
// cleaning substitution rules.
func field(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
