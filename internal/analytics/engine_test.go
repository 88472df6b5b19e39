// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

package analytics

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/reelytics/reelytics/internal/dataset"
	"github.com/reelytics/reelytics/internal/models"
)

// fixtureTable is a small canonical table covering genre explosion, shared
// titles across genres, multiple years and languages.
func fixtureTable() []models.CanonicalRecord {
	date := func(y, m, d int) time.Time {
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	}
	return []models.CanonicalRecord{
		{Title: "Alpha", ReleaseDate: date(2019, 3, 1), Popularity: 50, VoteCount: 10, VoteAverage: 5, OriginalLanguage: "en", Genre: "Action"},
		{Title: "Beta", ReleaseDate: date(2020, 1, 1), Popularity: 80, VoteCount: 20, VoteAverage: 7, OriginalLanguage: "en", Genre: "Action"},
		{Title: "Beta", ReleaseDate: date(2020, 1, 1), Popularity: 80, VoteCount: 20, VoteAverage: 7, OriginalLanguage: "en", Genre: "Drama"},
		{Title: "Gamma", ReleaseDate: date(2020, 6, 1), Popularity: 95, VoteCount: 30, VoteAverage: 9, OriginalLanguage: "fr", Genre: "Drama"},
	}
}

// newTestEngine writes the fixture table to a temp file and returns an
// engine over it.
func newTestEngine(t *testing.T, records []models.CanonicalRecord) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cleaned.csv")
	if err := dataset.WriteTable(path, records); err != nil {
		t.Fatalf("write fixture table: %v", err)
	}
	return NewEngine(path)
}

func TestEngine_StickyLoadFailure(t *testing.T) {
	engine := NewEngine(filepath.Join(t.TempDir(), "missing.csv"))

	_, err := engine.TopByPopularity(5)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("first query err = %v, want ErrDataUnavailable", err)
	}

	// Every subsequent query on the same instance fails identically, even
	// across different operations.
	if _, err := engine.ReleasesPerYear(); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("second query err = %v, want sticky ErrDataUnavailable", err)
	}
	if engine.Available() {
		t.Error("Available() = true on a failed instance")
	}
}

func TestEngine_InvalidParameters(t *testing.T) {
	engine := newTestEngine(t, fixtureTable())

	if _, err := engine.TopByPopularity(0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("TopByPopularity(0) err = %v, want ErrInvalidLimit", err)
	}
	if _, err := engine.TopByWeightedRating(-1, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("TopByWeightedRating(-1, 0) err = %v, want ErrInvalidLimit", err)
	}
	if _, err := engine.TopByWeightedRating(5, -1); !errors.Is(err, ErrInvalidMinVotes) {
		t.Errorf("TopByWeightedRating(5, -1) err = %v, want ErrInvalidMinVotes", err)
	}
}

func TestTopByPopularity(t *testing.T) {
	engine := newTestEngine(t, fixtureTable())

	rows, err := engine.TopByPopularity(10)
	if err != nil {
		t.Fatalf("TopByPopularity: %v", err)
	}

	// Beta appears under two genres but must occupy a single rank.
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 distinct titles", len(rows))
	}
	seen := make(map[string]bool)
	for _, row := range rows {
		if seen[row.Title] {
			t.Errorf("duplicate title %q in ranking", row.Title)
		}
		seen[row.Title] = true
	}

	// Non-increasing popularity.
	for i := 1; i < len(rows); i++ {
		if rows[i].Popularity > rows[i-1].Popularity {
			t.Errorf("popularity increases at rank %d: %v > %v", i, rows[i].Popularity, rows[i-1].Popularity)
		}
	}
	if rows[0].Title != "Gamma" || rows[1].Title != "Beta" || rows[2].Title != "Alpha" {
		t.Errorf("ranking = %q, %q, %q", rows[0].Title, rows[1].Title, rows[2].Title)
	}
}

func TestTopByPopularity_LimitTruncates(t *testing.T) {
	engine := newTestEngine(t, fixtureTable())

	rows, err := engine.TopByPopularity(1)
	if err != nil {
		t.Fatalf("TopByPopularity: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "Gamma" {
		t.Errorf("rows = %+v, want single Gamma row", rows)
	}
}

func TestTopByWeightedRating(t *testing.T) {
	engine := newTestEngine(t, fixtureTable())

	rows, err := engine.TopByWeightedRating(10, 0)
	if err != nil {
		t.Fatalf("TopByWeightedRating: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 distinct titles", len(rows))
	}

	// Gamma has both the highest rating and the most votes; it must rank
	// first. Alpha (lowest rating, fewest votes) must rank last.
	if rows[0].Title != "Gamma" || rows[2].Title != "Alpha" {
		t.Errorf("ranking = %q .. %q, want Gamma .. Alpha", rows[0].Title, rows[2].Title)
	}

	for i := 1; i < len(rows); i++ {
		if rows[i].WeightedRating > rows[i-1].WeightedRating {
			t.Errorf("weighted rating increases at rank %d", i)
		}
	}
}

func TestTopByWeightedRating_StableAcrossCalls(t *testing.T) {
	engine := newTestEngine(t, fixtureTable())

	first, err := engine.TopByWeightedRating(10, 0)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := engine.TopByWeightedRating(10, 0)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d differs across identical calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestTopByWeightedRating_MonotonicFiltering(t *testing.T) {
	engine := newTestEngine(t, fixtureTable())

	all, err := engine.TopByWeightedRating(10, 0)
	if err != nil {
		t.Fatalf("minVotes=0: %v", err)
	}
	filtered, err := engine.TopByWeightedRating(10, 20)
	if err != nil {
		t.Fatalf("minVotes=20: %v", err)
	}

	// Raising minVotes can only shrink the ranked population.
	population := make(map[string]bool)
	for _, row := range all {
		population[row.Title] = true
	}
	for _, row := range filtered {
		if !population[row.Title] {
			t.Errorf("title %q appears only under the stricter filter", row.Title)
		}
		if row.VoteCount < 20 {
			t.Errorf("title %q has %d votes, below the filter", row.Title, row.VoteCount)
		}
	}
}

func TestTopByWeightedRating_EmptyFilterIsNotAnError(t *testing.T) {
	engine := newTestEngine(t, fixtureTable())

	rows, err := engine.TopByWeightedRating(10, 1000000)
	if err != nil {
		t.Fatalf("err = %v, want nil for empty filtered set", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestTopByWeightedRating_AllZeroVotes(t *testing.T) {
	// Every filtered record with vote_count 0 makes v+m degenerate; the
	// rating falls back to the unweighted vote average.
	records := []models.CanonicalRecord{
		{Title: "Solo", ReleaseDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), VoteCount: 0, VoteAverage: 8.5, OriginalLanguage: "en", Genre: "Drama"},
	}
	engine := newTestEngine(t, records)

	rows, err := engine.TopByWeightedRating(5, 0)
	if err != nil {
		t.Fatalf("TopByWeightedRating: %v", err)
	}
	if len(rows) != 1 || rows[0].WeightedRating != 8.5 {
		t.Errorf("rows = %+v, want single row with weighted rating 8.5", rows)
	}
}

func TestAverageRatingPerGenre(t *testing.T) {
	engine := newTestEngine(t, fixtureTable())

	rows, err := engine.AverageRatingPerGenre()
	if err != nil {
		t.Fatalf("AverageRatingPerGenre: %v", err)
	}

	// Drama: (7+9)/2 = 8, Action: (5+7)/2 = 6; ordered by rating desc.
	if len(rows) != 2 {
		t.Fatalf("got %d genres, want 2", len(rows))
	}
	if rows[0].Genre != "Drama" || rows[0].AverageRating != 8 {
		t.Errorf("rows[0] = %+v, want Drama 8", rows[0])
	}
	if rows[1].Genre != "Action" || rows[1].AverageRating != 6 {
		t.Errorf("rows[1] = %+v, want Action 6", rows[1])
	}
}

func TestReleasesPerYear_CountsDistinctTitles(t *testing.T) {
	engine := newTestEngine(t, fixtureTable())

	rows, err := engine.ReleasesPerYear()
	if err != nil {
		t.Fatalf("ReleasesPerYear: %v", err)
	}

	// 2019: Alpha. 2020: Beta (2 genre rows, counts once) + Gamma.
	want := []models.YearCount{
		{Year: 2019, MovieCount: 1},
		{Year: 2020, MovieCount: 2},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d years, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("rows[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestDistributionByLanguage_CountsDistinctTitles(t *testing.T) {
	engine := newTestEngine(t, fixtureTable())

	rows, err := engine.DistributionByLanguage()
	if err != nil {
		t.Fatalf("DistributionByLanguage: %v", err)
	}

	// en: Alpha + Beta (Beta counts once), fr: Gamma; ordered count desc.
	want := []models.LanguageCount{
		{Language: "en", MovieCount: 2},
		{Language: "fr", MovieCount: 1},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d languages, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("rows[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestGroupCountsSumToDistinctTitles(t *testing.T) {
	engine := newTestEngine(t, fixtureTable())

	years, err := engine.ReleasesPerYear()
	if err != nil {
		t.Fatalf("ReleasesPerYear: %v", err)
	}
	languages, err := engine.DistributionByLanguage()
	if err != nil {
		t.Fatalf("DistributionByLanguage: %v", err)
	}

	const distinctTitles = 3 // Alpha, Beta, Gamma
	yearSum, langSum := 0, 0
	for _, row := range years {
		yearSum += row.MovieCount
	}
	for _, row := range languages {
		langSum += row.MovieCount
	}
	if yearSum != distinctTitles {
		t.Errorf("year counts sum to %d, want %d", yearSum, distinctTitles)
	}
	if langSum != distinctTitles {
		t.Errorf("language counts sum to %d, want %d", langSum, distinctTitles)
	}
}

func TestEngine_LoadsTableOnce(t *testing.T) {
	engine := newTestEngine(t, fixtureTable())

	if _, err := engine.TopByPopularity(1); err != nil {
		t.Fatalf("first query: %v", err)
	}
	rowsBefore := engine.Rows()

	// Queries never re-read the file during the instance's lifetime, so
	// replacing it after the first load must not change results.
	if err := dataset.WriteTable(engine.path, fixtureTable()[:1]); err != nil {
		t.Fatalf("rewrite table: %v", err)
	}
	if got := engine.Rows(); got != rowsBefore {
		t.Errorf("Rows() = %d after rewrite, want memoized %d", got, rowsBefore)
	}
}
