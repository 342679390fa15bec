// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package calendar

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/lankaconnect/eventrank/internal/breaker"
	"github.com/lankaconnect/eventrank/internal/ranking"
)

// Resilient decorates a Calendar with a circuit breaker. When the breaker
// opens, calls fail fast with ranking.ErrUnavailable and the engine
// degrades the cultural criterion instead of failing requests.
type Resilient struct {
	inner ranking.Calendar
	sig   *gobreaker.CircuitBreaker[bool]
	app   *gobreaker.CircuitBreaker[ranking.Appropriateness]
	nat   *gobreaker.CircuitBreaker[ranking.EventNature]
}

var _ ranking.Calendar = (*Resilient)(nil)

// NewResilient wraps the calendar with breakers built from cfg.
func NewResilient(inner ranking.Calendar, cfg breaker.Config, onChange breaker.StateFunc) *Resilient {
	return &Resilient{
		inner: inner,
		sig:   breaker.New[bool](cfg, onChange),
		app:   breaker.New[ranking.Appropriateness](cfg, onChange),
		nat:   breaker.New[ranking.EventNature](cfg, onChange),
	}
}

// IsSignificantDate delegates through the breaker.
func (r *Resilient) IsSignificantDate(ctx context.Context, date time.Time) (bool, error) {
	out, err := r.sig.Execute(func() (bool, error) {
		return r.inner.IsSignificantDate(ctx, date)
	})
	return out, breaker.Unavailable(err)
}

// Appropriateness delegates through the breaker.
func (r *Resilient) Appropriateness(ctx context.Context, event *ranking.CandidateEvent, background string) (ranking.Appropriateness, error) {
	out, err := r.app.Execute(func() (ranking.Appropriateness, error) {
		return r.inner.Appropriateness(ctx, event, background)
	})
	return out, breaker.Unavailable(err)
}

// ClassifyNature delegates through the breaker.
func (r *Resilient) ClassifyNature(ctx context.Context, event *ranking.CandidateEvent) (ranking.EventNature, error) {
	out, err := r.nat.Execute(func() (ranking.EventNature, error) {
		return r.inner.ClassifyNature(ctx, event)
	})
	return out, breaker.Unavailable(err)
}
