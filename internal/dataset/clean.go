// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/reelytics/reelytics/internal/models"
)

// dateLayouts are the release-date formats accepted by the pipeline, tried
// in order. Anything that matches none of them is unparseable and drops
// the row.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Clean transforms raw records into the canonical, genre-exploded,
// deterministically ordered table.
func Clean(raws []RawRecord) ([]models.CanonicalRecord, CleanStats) {
	stats := CleanStats{RowsIn: len(raws)}

	records := make([]models.CanonicalRecord, 0, len(raws))
	for _, raw := range raws {
		date, ok := parseReleaseDate(raw.ReleaseDate)
		if !ok {
			stats.RowsDropped++
			continue
		}

		popularity := coerceFloat(raw.Popularity)
		voteCount := int64(coerceFloat(raw.VoteCount))
		voteAverage := coerceFloat(raw.VoteAverage)
		language := normalizeLanguage(raw.OriginalLanguage)

		// Genre explosion: one canonical row per genre, identical
		// non-genre fields.
		for _, genre := range splitGenres(raw.Genre) {
			records = append(records, models.CanonicalRecord{
				Title:            raw.Title,
				ReleaseDate:      date,
				Popularity:       popularity,
				VoteCount:        voteCount,
				VoteAverage:      voteAverage,
				OriginalLanguage: language,
				Genre:            genre,
			})
		}
	}

	sortCanonical(records)
	stats.RowsOut = len(records)
	return records, stats
}

// parseReleaseDate parses a release-date value against the accepted
// layouts. Returns ok=false for anything that is not a valid calendar date.
func parseReleaseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// coerceFloat parses a numeric-ish string. Missing, malformed, non-finite
// and negative values all coerce to 0; canonical numeric fields are never
// negative and never null.
func coerceFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// normalizeLanguage lower-cases and trims a language code, substituting the
// "unknown" sentinel for missing or blank values.
func normalizeLanguage(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return UnknownLanguage
	}
	return value
}

// splitGenres splits a comma-separated genre field into trimmed elements.
// A missing field and a blank segment both collapse to the "Unknown"
// sentinel; the two cases are indistinguishable downstream.
func splitGenres(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{UnknownGenre}
	}

	parts := strings.Split(value, ",")
	genres := make([]string, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			part = UnknownGenre
		}
		genres[i] = part
	}
	return genres
}

// sortCanonical orders the table by release date ascending, then title
// ascending. The stable sort makes the canonical row order reproducible
// from the same raw input.
func sortCanonical(records []models.CanonicalRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].ReleaseDate.Equal(records[j].ReleaseDate) {
			return records[i].ReleaseDate.Before(records[j].ReleaseDate)
		}
		return records[i].Title < records[j].Title
	})
}
