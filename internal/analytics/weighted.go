// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

package analytics

import (
	"math"
	"sort"
)

// voteCountQuantile is the quantile of vote counts used as the Bayesian
// prior weight m in the weighted-rating formula.
const voteCountQuantile = 0.70

// weightedRating computes the IMDb-style Bayesian weighted rating:
//
//	(v / (v + m)) * R + (m / (v + m)) * C
//
// where v is the record's vote count, R its vote average, m the vote-count
// quantile of the filtered set and C that set's mean vote average. When
// v + m == 0 (every filtered record has zero votes) the formula is
// undefined; the result is then the unweighted vote average.
func weightedRating(v, r, m, c float64) float64 {
	if v+m == 0 {
		return r
	}
	return (v/(v+m))*r + (m/(v+m))*c
}

// quantile returns the q-quantile of values using linear interpolation
// between order statistics. Returns 0 for an empty input.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// mean returns the arithmetic mean of values, or 0 for an empty input.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
