// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

package analytics

import (
	"sort"
	"time"

	"github.com/reelytics/reelytics/internal/metrics"
	"github.com/reelytics/reelytics/internal/models"
)

// The ranking queries must deduplicate by title before truncating: genre
// explosion makes one movie appear as multiple rows, and a movie must not
// occupy multiple ranks. All genre rows of a movie share identical
// non-genre fields, so keeping the first occurrence is sufficient.
//
// The grouping queries intentionally do NOT deduplicate across genre —
// per-genre averages rely on the exploded rows. Only the per-year and
// per-language counts use distinct-title counting, to avoid inflating
// counts by genre multiplicity.

// TopByPopularity returns the limit most popular distinct titles, ordered
// by popularity descending.
func (e *Engine) TopByPopularity(limit int) ([]models.PopularMovie, error) {
	start := time.Now()
	rows, err := e.topByPopularity(limit)
	metrics.RecordAnalyticsQuery("top_by_popularity", time.Since(start), err)
	return rows, err
}

func (e *Engine) topByPopularity(limit int) ([]models.PopularMovie, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	table, err := e.load()
	if err != nil {
		return nil, err
	}

	sorted := make([]models.CanonicalRecord, len(table))
	copy(sorted, table)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Popularity > sorted[j].Popularity
	})

	rows := make([]models.PopularMovie, 0, limit)
	seen := make(map[string]bool, limit)
	for _, rec := range sorted {
		if seen[rec.Title] {
			continue
		}
		seen[rec.Title] = true
		rows = append(rows, models.PopularMovie{
			Title:       rec.Title,
			Popularity:  rec.Popularity,
			VoteAverage: rec.VoteAverage,
			VoteCount:   rec.VoteCount,
		})
		if len(rows) == limit {
			break
		}
	}
	return rows, nil
}

// TopByWeightedRating returns the limit highest-ranked distinct titles by
// Bayesian weighted rating, considering only records with at least minVotes
// votes. The prior weight m (70th percentile of vote counts) and the global
// mean C are recomputed from the filtered set on every call, so results are
// only comparable across calls with identical minVotes. An empty filtered
// set yields an empty result, not an error.
func (e *Engine) TopByWeightedRating(limit, minVotes int) ([]models.RatedMovie, error) {
	start := time.Now()
	rows, err := e.topByWeightedRating(limit, minVotes)
	metrics.RecordAnalyticsQuery("top_by_weighted_rating", time.Since(start), err)
	return rows, err
}

func (e *Engine) topByWeightedRating(limit, minVotes int) ([]models.RatedMovie, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	if minVotes < 0 {
		return nil, ErrInvalidMinVotes
	}
	table, err := e.load()
	if err != nil {
		return nil, err
	}

	var (
		filtered []models.CanonicalRecord
		counts   []float64
		averages []float64
	)
	for _, rec := range table {
		if rec.VoteCount >= int64(minVotes) {
			filtered = append(filtered, rec)
			counts = append(counts, float64(rec.VoteCount))
			averages = append(averages, rec.VoteAverage)
		}
	}
	if len(filtered) == 0 {
		return []models.RatedMovie{}, nil
	}

	m := quantile(counts, voteCountQuantile)
	c := mean(averages)

	type scored struct {
		rec    models.CanonicalRecord
		rating float64
	}
	ranked := make([]scored, len(filtered))
	for i, rec := range filtered {
		ranked[i] = scored{
			rec:    rec,
			rating: weightedRating(float64(rec.VoteCount), rec.VoteAverage, m, c),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].rating > ranked[j].rating
	})

	rows := make([]models.RatedMovie, 0, limit)
	seen := make(map[string]bool, limit)
	for _, s := range ranked {
		if seen[s.rec.Title] {
			continue
		}
		seen[s.rec.Title] = true
		rows = append(rows, models.RatedMovie{
			Title:          s.rec.Title,
			WeightedRating: round2(s.rating),
			VoteAverage:    round2(s.rec.VoteAverage),
			VoteCount:      s.rec.VoteCount,
		})
		if len(rows) == limit {
			break
		}
	}
	return rows, nil
}

// AverageRatingPerGenre returns the mean vote average per genre, rounded to
// 2 decimals, ordered by average rating descending (ties by genre
// ascending).
func (e *Engine) AverageRatingPerGenre() ([]models.GenreRating, error) {
	start := time.Now()
	rows, err := e.averageRatingPerGenre()
	metrics.RecordAnalyticsQuery("average_rating_per_genre", time.Since(start), err)
	return rows, err
}

func (e *Engine) averageRatingPerGenre() ([]models.GenreRating, error) {
	table, err := e.load()
	if err != nil {
		return nil, err
	}

	type agg struct {
		sum   float64
		count int
	}
	groups := make(map[string]*agg)
	for _, rec := range table {
		g, ok := groups[rec.Genre]
		if !ok {
			g = &agg{}
			groups[rec.Genre] = g
		}
		g.sum += rec.VoteAverage
		g.count++
	}

	rows := make([]models.GenreRating, 0, len(groups))
	for genre, g := range groups {
		rows = append(rows, models.GenreRating{
			Genre:         genre,
			AverageRating: round2(g.sum / float64(g.count)),
		})
	}
	// Key-ascending base order, then a stable re-sort by rating, keeps tie
	// ordering deterministic.
	sort.Slice(rows, func(i, j int) bool { return rows[i].Genre < rows[j].Genre })
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AverageRating > rows[j].AverageRating
	})
	return rows, nil
}

// ReleasesPerYear returns the number of distinct titles released per year,
// ordered by year ascending. A movie exploded into K genre rows counts once.
func (e *Engine) ReleasesPerYear() ([]models.YearCount, error) {
	start := time.Now()
	rows, err := e.releasesPerYear()
	metrics.RecordAnalyticsQuery("releases_per_year", time.Since(start), err)
	return rows, err
}

func (e *Engine) releasesPerYear() ([]models.YearCount, error) {
	table, err := e.load()
	if err != nil {
		return nil, err
	}

	titlesByYear := make(map[int]map[string]struct{})
	for _, rec := range table {
		year := rec.Year()
		titles, ok := titlesByYear[year]
		if !ok {
			titles = make(map[string]struct{})
			titlesByYear[year] = titles
		}
		titles[rec.Title] = struct{}{}
	}

	rows := make([]models.YearCount, 0, len(titlesByYear))
	for year, titles := range titlesByYear {
		rows = append(rows, models.YearCount{Year: year, MovieCount: len(titles)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
	return rows, nil
}

// DistributionByLanguage returns the number of distinct titles per original
// language, ordered by count descending (ties by language ascending).
func (e *Engine) DistributionByLanguage() ([]models.LanguageCount, error) {
	start := time.Now()
	rows, err := e.distributionByLanguage()
	metrics.RecordAnalyticsQuery("distribution_by_language", time.Since(start), err)
	return rows, err
}

func (e *Engine) distributionByLanguage() ([]models.LanguageCount, error) {
	table, err := e.load()
	if err != nil {
		return nil, err
	}

	titlesByLanguage := make(map[string]map[string]struct{})
	for _, rec := range table {
		titles, ok := titlesByLanguage[rec.OriginalLanguage]
		if !ok {
			titles = make(map[string]struct{})
			titlesByLanguage[rec.OriginalLanguage] = titles
		}
		titles[rec.Title] = struct{}{}
	}

	rows := make([]models.LanguageCount, 0, len(titlesByLanguage))
	for language, titles := range titlesByLanguage {
		rows = append(rows, models.LanguageCount{
			Language:   language,
			MovieCount: len(titles),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Language < rows[j].Language })
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MovieCount > rows[j].MovieCount
	})
	return rows, nil
}
