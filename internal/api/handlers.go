// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/lankaconnect/eventrank/internal/learning"
	"github.com/lankaconnect/eventrank/internal/logging"
	"github.com/lankaconnect/eventrank/internal/metrics"
	"github.com/lankaconnect/eventrank/internal/ranking"
)

// Handler serves the ranking API.
type Handler struct {
	engine   *ranking.Engine
	pubsub   *learning.PubSub
	validate *validator.Validate
	logger   zerolog.Logger
	started  time.Time
	version  string
}

// NewHandler creates the API handler. pubsub may be nil, which disables
// the interactions endpoint.
func NewHandler(engine *ranking.Engine, pubsub *learning.PubSub, logger zerolog.Logger, version string) *Handler {
	return &Handler{
		engine:   engine,
		pubsub:   pubsub,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With().Str("component", "api").Logger(),
		started:  time.Now(),
		version:  version,
	}
}

// Rank handles POST /api/v1/rankings.
func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON payload")
		return
	}
	if err := req.Validate(h.validate); err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, ErrCodeValidationFailed, err.Error())
		return
	}
	opts, err := req.Options(logging.RequestIDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, ErrCodeValidationFailed, err.Error())
		return
	}

	result, err := h.engine.Rank(r.Context(), req.Candidates, &req.User, opts)
	if err != nil {
		switch {
		case errors.Is(err, ranking.ErrEmptyCandidates), errors.Is(err, ranking.ErrNilUser):
			respondError(w, r, http.StatusUnprocessableEntity, ErrCodeValidationFailed, err.Error())
		case errors.Is(err, ranking.ErrTooManyCandidates):
			respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodeValidationFailed, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "request cancelled")
		default:
			logging.Ctx(r.Context()).Error().Err(err).Msg("ranking failed")
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "ranking failed")
		}
		metrics.RankingRequestsTotal.WithLabelValues("error").Inc()
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

// Interact handles POST /api/v1/interactions. The interaction is published
// to the learning pipeline and applied out of band; 202 means accepted,
// not yet learned.
func (h *Handler) Interact(w http.ResponseWriter, r *http.Request) {
	if h.pubsub == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "learning pipeline disabled")
		return
	}
	var req InteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, ErrCodeValidationFailed, err.Error())
		return
	}
	if req.Event.ID == "" {
		respondError(w, r, http.StatusUnprocessableEntity, ErrCodeValidationFailed, "event.id is required")
		return
	}
	interaction, err := req.Interaction(time.Now().UTC())
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, ErrCodeValidationFailed, err.Error())
		return
	}

	ev := learning.InteractionEvent{
		UserID:      req.UserID,
		Event:       req.Event,
		Interaction: interaction,
	}
	if err := h.pubsub.Publish(ev); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("interaction publish failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "interaction not accepted")
		return
	}
	metrics.InteractionsPublished.Inc()
	respondJSON(w, r, http.StatusAccepted, map[string]string{
		"status": "accepted",
	})
}

// GetConfig handles GET /api/v1/rankings/config.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.engine.Config())
}

// UpdateConfig handles PUT /api/v1/rankings/config.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON payload")
		return
	}
	if err := h.engine.UpdateConfig(req.Config); err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, ErrCodeValidationFailed, err.Error())
		return
	}
	logging.Ctx(r.Context()).Info().Msg("engine configuration updated")
	respondJSON(w, r, http.StatusOK, h.engine.Config())
}

// statusResponse is the GET /api/v1/rankings/status payload.
type statusResponse struct {
	Version       string              `json:"version"`
	UptimeSeconds int64               `json:"uptime_seconds"`
	Criteria      []ranking.Criterion `json:"criteria"`
	Weights       ranking.Weights     `json:"default_weights"`
	Epsilon       float64             `json:"epsilon"`
}

// Status handles GET /api/v1/rankings/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	cfg := h.engine.Config()
	respondJSON(w, r, http.StatusOK, statusResponse{
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		Criteria:      h.engine.Criteria(),
		Weights:       cfg.Weights,
		Epsilon:       cfg.Epsilon,
	})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
