// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

// Package breaker wraps sony/gobreaker for the collaborator decorators.
// An open breaker is how a collaborator outage becomes degraded-mode
// ranking instead of a failed request.
package breaker

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/lankaconnect/eventrank/internal/ranking"
)

// Config holds circuit breaker tuning for one collaborator.
type Config struct {
	// Name identifies the breaker in logs and metrics.
	Name string `json:"name" koanf:"name"`

	// MaxRequests is the half-open probe allowance.
	MaxRequests uint32 `json:"max_requests" koanf:"max_requests"`

	// Interval is the closed-state counter reset period.
	Interval time.Duration `json:"interval" koanf:"interval"`

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`

	// FailureThreshold is the consecutive failure count that trips the
	// breaker.
	FailureThreshold uint32 `json:"failure_threshold" koanf:"failure_threshold"`
}

// DefaultConfig returns breaker defaults for the given name.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// StateFunc receives breaker state transitions, for metrics and logging.
type StateFunc func(name string, from, to gobreaker.State)

// New creates a circuit breaker from the config. onChange may be nil.
func New[T any](cfg Config, onChange StateFunc) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	}
	if onChange != nil {
		settings.OnStateChange = onChange
	}
	return gobreaker.NewCircuitBreaker[T](settings)
}

// Unavailable converts breaker rejections into ranking.ErrUnavailable so
// the engine degrades the criterion. Genuine collaborator errors pass
// through untouched and count toward tripping the breaker.
func Unavailable(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ranking.ErrUnavailable
	}
	return err
}
