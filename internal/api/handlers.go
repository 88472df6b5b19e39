// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

// Package api provides the HTTP boundary over the analytics engine: five
// read-only movie analytics endpoints plus health endpoints, all returning
// the standard APIResponse envelope. The boundary validates parameters,
// invokes the engine, and maps its error conditions onto HTTP statuses; it
// carries no analytical logic of its own.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/reelytics/reelytics/internal/analytics"
	"github.com/reelytics/reelytics/internal/config"
	"github.com/reelytics/reelytics/internal/models"
)

// Version is the API version reported by the health endpoint.
const Version = "1.0.0"

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	engine    *analytics.Engine
	cfg       *config.Config
	startTime time.Time
}

// NewHandler creates a Handler backed by the given analytics engine.
func NewHandler(engine *analytics.Engine, cfg *config.Config) *Handler {
	return &Handler{
		engine:    engine,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// rankingRequest carries the validated parameters of the two ranking
// endpoints. The upper limit bound comes from configuration and is checked
// separately in checkLimitCap.
type rankingRequest struct {
	Limit    int `validate:"min=1"`
	MinVotes int `validate:"min=0"`
}

// checkLimitCap enforces the configured maximum limit at the boundary. The
// engine itself only rejects non-positive limits.
func (h *Handler) checkLimitCap(w http.ResponseWriter, limit int) bool {
	if limit > h.cfg.API.MaxLimit {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("limit must be at most %d", h.cfg.API.MaxLimit), nil)
		return false
	}
	return true
}

// respondEngineError maps engine error conditions onto HTTP statuses.
// A missing dataset is an operational condition (503, retryable after
// preprocessing), distinct from client input errors (400).
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analytics.ErrDataUnavailable):
		respondError(w, http.StatusServiceUnavailable, "DATA_UNAVAILABLE",
			"Data layer not initialized. Run preprocessing first.", err)
	case errors.Is(err, analytics.ErrInvalidLimit),
		errors.Is(err, analytics.ErrInvalidMinVotes):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Internal server error", err)
	}
}

// MostPopular returns the top N movies by raw popularity score.
//
// Method: GET
// Path: /api/v1/movies/most-popular?limit=10
func (h *Handler) MostPopular(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := rankingRequest{
		Limit:    getIntParam(r, "limit", h.cfg.API.DefaultLimit),
		MinVotes: 0,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if !h.checkLimitCap(w, req.Limit) {
		return
	}

	rows, err := h.engine.TopByPopularity(req.Limit)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondSuccess(w, models.NewResults(rows), start)
}

// TopRated returns the top N movies by Bayesian weighted rating, filtering
// out titles below the min_votes threshold.
//
// Method: GET
// Path: /api/v1/movies/top-rated?limit=10&min_votes=500
func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := rankingRequest{
		Limit:    getIntParam(r, "limit", h.cfg.API.DefaultLimit),
		MinVotes: getIntParam(r, "min_votes", h.cfg.API.DefaultMinVotes),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if !h.checkLimitCap(w, req.Limit) {
		return
	}

	rows, err := h.engine.TopByWeightedRating(req.Limit, req.MinVotes)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondSuccess(w, models.NewResults(rows), start)
}

// ByGenre returns the average rating per genre.
//
// Method: GET
// Path: /api/v1/movies/by-genre
func (h *Handler) ByGenre(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	rows, err := h.engine.AverageRatingPerGenre()
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondSuccess(w, models.NewResults(rows), start)
}

// YearlyTrends returns release volume per year, counting distinct titles.
//
// Method: GET
// Path: /api/v1/movies/yearly-trends
func (h *Handler) YearlyTrends(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	rows, err := h.engine.ReleasesPerYear()
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondSuccess(w, models.NewResults(rows), start)
}

// LanguageStats returns the distinct-title distribution per original
// language.
//
// Method: GET
// Path: /api/v1/movies/language-stats
func (h *Handler) LanguageStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	rows, err := h.engine.DistributionByLanguage()
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondSuccess(w, models.NewResults(rows), start)
}

// Health reports overall service health. The service is degraded (but
// still live) when the canonical dataset cannot be loaded.
//
// Method: GET
// Path: /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	available := h.engine.Available()

	status := "healthy"
	if !available {
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:           status,
			Version:          Version,
			DatasetAvailable: available,
			DatasetRows:      h.engine.Rows(),
			Uptime:           time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive is the liveness probe: the process is serving requests.
//
// Method: GET
// Path: /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": "alive"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady is the readiness probe: 503 until the canonical dataset is
// loadable. Probing triggers the engine's lazy load, so a missing dataset
// is surfaced before the first client query.
//
// Method: GET
// Path: /api/v1/health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.engine.Available() {
		respondError(w, http.StatusServiceUnavailable, "DATA_UNAVAILABLE",
			"Data layer not initialized. Run preprocessing first.", nil)
		return
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": "ready"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
