// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

package models

import (
	"time"
)

// CanonicalRecord is one row of the cleaned, genre-exploded movie table.
//
// A raw movie with N distinct genres produces exactly N canonical records
// that share identical non-genre fields, one per genre. The canonical table
// is totally ordered by (release date ascending, title ascending) and that
// order is reproducible from the same raw input.
//
// Invariants maintained by the cleaning pipeline:
//   - ReleaseDate is always a valid calendar date (rows with unparseable
//     dates are dropped, never defaulted)
//   - Popularity, VoteCount and VoteAverage are never negative; missing or
//     malformed raw values are coerced to 0
//   - OriginalLanguage is lowercase, trimmed and non-empty ("unknown" when
//     the raw field is missing)
//   - Genre is trimmed and non-empty ("Unknown" when the raw field is
//     missing or an exploded segment is blank)
type CanonicalRecord struct {
	Title            string
	ReleaseDate      time.Time
	Popularity       float64
	VoteCount        int64
	VoteAverage      float64
	OriginalLanguage string
	Genre            string
}

// Year returns the release year of the record.
func (r CanonicalRecord) Year() int {
	return r.ReleaseDate.Year()
}

// PopularMovie is one row of the popularity ranking.
type PopularMovie struct {
	Title       string  `json:"title"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
}

// RatedMovie is one row of the Bayesian weighted-rating ranking.
// WeightedRating and VoteAverage are rounded to 2 decimal places.
type RatedMovie struct {
	Title          string  `json:"title"`
	WeightedRating float64 `json:"weighted_rating"`
	VoteAverage    float64 `json:"vote_average"`
	VoteCount      int64   `json:"vote_count"`
}

// GenreRating is the mean vote average for one genre, rounded to 2 decimals.
type GenreRating struct {
	Genre         string  `json:"genre"`
	AverageRating float64 `json:"average_rating"`
}

// YearCount is the number of distinct titles released in one year.
type YearCount struct {
	Year       int `json:"year"`
	MovieCount int `json:"movie_count"`
}

// LanguageCount is the number of distinct titles per original language.
type LanguageCount struct {
	Language   string `json:"language"`
	MovieCount int    `json:"movie_count"`
}

// Results wraps a query result list for HTTP responses.
// The boundary layer returns every analytics payload as {"results": [...]}.
type Results[T any] struct {
	Results []T `json:"results"`
}

// NewResults wraps rows in a Results payload, normalizing nil to an empty
// slice so clients always receive a JSON array.
func NewResults[T any](rows []T) Results[T] {
	if rows == nil {
		rows = []T{}
	}
	return Results[T]{Results: rows}
}
