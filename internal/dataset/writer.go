// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/reelytics/reelytics/internal/models"
)

// canonicalHeader is the column order of the canonical table file.
var canonicalHeader = []string{
	colTitle, colReleaseDate, colPopularity, colVoteCount, colVoteAverage,
	colLanguage, colGenre,
}

// releaseDateFormat is the date layout used in the canonical file.
const releaseDateFormat = "2006-01-02"

// WriteTable persists the canonical table to path as a delimited file.
// The write goes to a temporary file in the destination directory and is
// renamed into place, so a failed run never leaves partial output. Given
// the same records, the output is byte-identical across runs.
func WriteTable(path string, records []models.CanonicalRecord) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename succeeds

	w := csv.NewWriter(tmp)
	if err := w.Write(canonicalHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Title,
			rec.ReleaseDate.Format(releaseDateFormat),
			formatFloat(rec.Popularity),
			strconv.FormatInt(rec.VoteCount, 10),
			formatFloat(rec.VoteAverage),
			rec.OriginalLanguage,
			rec.Genre,
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp output: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// formatFloat renders a float with the shortest representation that
// round-trips, keeping reruns byte-identical.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
