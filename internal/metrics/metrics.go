// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

// Package metrics provides Prometheus instrumentation for the ranking
// pipeline, the HTTP API, the learning consumer, and the collaborator
// circuit breakers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	gobreaker "github.com/sony/gobreaker/v2"
)

var (
	// Ranking pipeline metrics.

	RankingRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_requests_total",
			Help: "Total ranking requests by outcome",
		},
		[]string{"outcome"}, // "ok", "degraded", "error"
	)

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ranking_duration_seconds",
			Help:    "End-to-end ranking latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	RankingStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ranking_stage_duration_seconds",
			Help:    "Per-stage ranking latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"stage"},
	)

	RankingCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ranking_candidates",
			Help:    "Candidate set sizes per request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	RankingExcludedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranking_excluded_events_total",
			Help: "Total events excluded by schedule-conflict resolution",
		},
	)

	RankingDegradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranking_degraded_total",
			Help: "Total rankings served in degraded mode",
		},
	)

	// API metrics.

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	// Learning pipeline metrics.

	InteractionsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "learning_interactions_published_total",
			Help: "Total interaction events published",
		},
	)

	InteractionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learning_interactions_applied_total",
			Help: "Total interaction events applied to the preference store",
		},
		[]string{"result"}, // "ok", "error", "malformed"
	)

	// Collaborator circuit breaker state: 0 closed, 1 half-open, 2 open.

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Collaborator circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"breaker"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordBreakerState updates the breaker state gauge; wire it as the
// breaker OnStateChange callback.
func RecordBreakerState(name string, _, to gobreaker.State) {
	var v float64
	switch to {
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	CircuitBreakerState.WithLabelValues(name).Set(v)
}

// RankingObserver adapts these collectors to the engine's Observer
// interface.
type RankingObserver struct{}

// ObserveRanking records one completed ranking.
func (RankingObserver) ObserveRanking(latency time.Duration, candidates, excluded int, degraded bool) {
	RankingDuration.Observe(latency.Seconds())
	RankingCandidates.Observe(float64(candidates))
	RankingExcludedTotal.Add(float64(excluded))
	if degraded {
		RankingDegradedTotal.Inc()
		RankingRequestsTotal.WithLabelValues("degraded").Inc()
		return
	}
	RankingRequestsTotal.WithLabelValues("ok").Inc()
}

// ObserveStage records one completed pipeline stage.
func (RankingObserver) ObserveStage(stage string, latency time.Duration) {
	RankingStageDuration.WithLabelValues(stage).Observe(latency.Seconds())
}
