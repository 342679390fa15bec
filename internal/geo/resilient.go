// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package geo

import (
	"context"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/lankaconnect/eventrank/internal/breaker"
	"github.com/lankaconnect/eventrank/internal/ranking"
)

// Resilient decorates a Geography with a circuit breaker. When the breaker
// opens, calls fail fast with ranking.ErrUnavailable and the engine
// degrades the geographic criterion instead of failing requests.
type Resilient struct {
	inner ranking.Geography
	f64   *gobreaker.CircuitBreaker[float64]
	flag  *gobreaker.CircuitBreaker[bool]
}

var _ ranking.Geography = (*Resilient)(nil)

// NewResilient wraps the geography service with breakers built from cfg.
func NewResilient(inner ranking.Geography, cfg breaker.Config, onChange breaker.StateFunc) *Resilient {
	return &Resilient{
		inner: inner,
		f64:   breaker.New[float64](cfg, onChange),
		flag:  breaker.New[bool](cfg, onChange),
	}
}

// ProximityScore delegates through the breaker.
func (r *Resilient) ProximityScore(ctx context.Context, event *ranking.CandidateEvent, home ranking.Location, maxTravelKm float64) (float64, error) {
	out, err := r.f64.Execute(func() (float64, error) {
		return r.inner.ProximityScore(ctx, event, home, maxTravelKm)
	})
	return out, breaker.Unavailable(err)
}

// TransportAccessibility delegates through the breaker.
func (r *Resilient) TransportAccessibility(ctx context.Context, event *ranking.CandidateEvent, prefs ranking.TransportPreferences) (float64, error) {
	out, err := r.f64.Execute(func() (float64, error) {
		return r.inner.TransportAccessibility(ctx, event, prefs)
	})
	return out, breaker.Unavailable(err)
}

// DistanceKm delegates through the breaker.
func (r *Resilient) DistanceKm(ctx context.Context, event *ranking.CandidateEvent, home ranking.Location) (float64, error) {
	out, err := r.f64.Execute(func() (float64, error) {
		return r.inner.DistanceKm(ctx, event, home)
	})
	return out, breaker.Unavailable(err)
}

// IsBorderLocation delegates through the breaker.
func (r *Resilient) IsBorderLocation(ctx context.Context, loc ranking.Location) (bool, error) {
	out, err := r.flag.Execute(func() (bool, error) {
		return r.inner.IsBorderLocation(ctx, loc)
	})
	return out, breaker.Unavailable(err)
}
