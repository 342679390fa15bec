// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package prefs

import (
	"context"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/lankaconnect/eventrank/internal/breaker"
	"github.com/lankaconnect/eventrank/internal/ranking"
)

// Resilient decorates a PreferenceStore with a circuit breaker. When the
// breaker opens, reads fail fast with ranking.ErrUnavailable and the engine
// falls back to default weights without personalization.
type Resilient struct {
	inner   ranking.PreferenceStore
	weights *gobreaker.CircuitBreaker[ranking.Weights]
	history *gobreaker.CircuitBreaker[ranking.AttendanceHistory]
	update  *gobreaker.CircuitBreaker[struct{}]
}

var _ ranking.PreferenceStore = (*Resilient)(nil)

// NewResilient wraps the store with breakers built from cfg.
func NewResilient(inner ranking.PreferenceStore, cfg breaker.Config, onChange breaker.StateFunc) *Resilient {
	return &Resilient{
		inner:   inner,
		weights: breaker.New[ranking.Weights](cfg, onChange),
		history: breaker.New[ranking.AttendanceHistory](cfg, onChange),
		update:  breaker.New[struct{}](cfg, onChange),
	}
}

// ScoringWeights delegates through the breaker.
func (r *Resilient) ScoringWeights(ctx context.Context, userID string) (ranking.Weights, error) {
	out, err := r.weights.Execute(func() (ranking.Weights, error) {
		return r.inner.ScoringWeights(ctx, userID)
	})
	return out, breaker.Unavailable(err)
}

// AttendanceHistory delegates through the breaker.
func (r *Resilient) AttendanceHistory(ctx context.Context, userID string) (ranking.AttendanceHistory, error) {
	out, err := r.history.Execute(func() (ranking.AttendanceHistory, error) {
		return r.inner.AttendanceHistory(ctx, userID)
	})
	return out, breaker.Unavailable(err)
}

// UpdatePreferenceLearning delegates through the breaker.
func (r *Resilient) UpdatePreferenceLearning(ctx context.Context, userID string, event *ranking.CandidateEvent, interaction ranking.Interaction) error {
	_, err := r.update.Execute(func() (struct{}, error) {
		return struct{}{}, r.inner.UpdatePreferenceLearning(ctx, userID, event, interaction)
	})
	return breaker.Unavailable(err)
}
