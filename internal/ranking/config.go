// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package ranking

import (
	"fmt"
	"time"
)

// Config holds engine configuration.
type Config struct {
	// Weights is the default base weight vector, used when the preference
	// store carries no profile for a user or is unavailable.
	Weights Weights `json:"weights" koanf:"weights"`

	// Epsilon is the composite-score distance below which two events are
	// considered tied and enter the tie-break cascade.
	Epsilon float64 `json:"epsilon" koanf:"epsilon"`

	// Cascade is the default tie-break cascade ordering.
	Cascade []TieBreaker `json:"cascade" koanf:"cascade"`

	// Personalization tunes history-driven weight adjustment.
	Personalization PersonalizationConfig `json:"personalization" koanf:"personalization"`

	// Conflict tunes schedule-conflict resolution.
	Conflict ConflictConfig `json:"conflict" koanf:"conflict"`

	// MaxCandidates caps the candidate set size per request. Zero disables
	// the cap.
	MaxCandidates int `json:"max_candidates" koanf:"max_candidates"`

	// ScoreTimeout bounds the scoring fan-out stage.
	ScoreTimeout time.Duration `json:"score_timeout" koanf:"score_timeout"`
}

// PersonalizationConfig tunes how attendance history adjusts base weights.
type PersonalizationConfig struct {
	// Enabled toggles history-driven adjustment. When false, base weights
	// are used as-is.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// LearningRate scales the raw outcome/score covariance into a weight
	// delta.
	LearningRate float64 `json:"learning_rate" koanf:"learning_rate"`

	// MaxShift caps the absolute per-criterion weight delta before
	// renormalization.
	MaxShift float64 `json:"max_shift" koanf:"max_shift"`

	// MinRecords is the minimum history size before adjustment applies.
	MinRecords int `json:"min_records" koanf:"min_records"`
}

// ConflictConfig tunes schedule-conflict resolution.
type ConflictConfig struct {
	// ExemptDuration exempts events at least this long from conflict
	// grouping. Multi-day festivals overlap everything and should not
	// suppress shorter events.
	ExemptDuration time.Duration `json:"exempt_duration" koanf:"exempt_duration"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Weights: DefaultWeights(),
		Epsilon: 0.001,
		Cascade: DefaultCascade(),
		Personalization: PersonalizationConfig{
			Enabled:      true,
			LearningRate: 0.5,
			MaxShift:     0.10,
			MinRecords:   3,
		},
		Conflict: ConflictConfig{
			ExemptDuration: 24 * time.Hour,
		},
		MaxCandidates: 500,
		ScoreTimeout:  5 * time.Second,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if c.Epsilon < 0 || c.Epsilon >= 1 {
		return fmt.Errorf("epsilon must be in [0,1), got %f", c.Epsilon)
	}
	if len(c.Cascade) == 0 {
		return fmt.Errorf("cascade must not be empty")
	}
	seen := make(map[TieBreaker]bool, len(c.Cascade))
	for _, tb := range c.Cascade {
		if tb.String() == "unknown" {
			return fmt.Errorf("unknown tie-breaker %d in cascade", int(tb))
		}
		if seen[tb] {
			return fmt.Errorf("duplicate tie-breaker %q in cascade", tb)
		}
		seen[tb] = true
	}
	if c.Personalization.LearningRate < 0 || c.Personalization.LearningRate > 1 {
		return fmt.Errorf("learning_rate must be in [0,1], got %f", c.Personalization.LearningRate)
	}
	if c.Personalization.MaxShift < 0 || c.Personalization.MaxShift >= 0.5 {
		return fmt.Errorf("max_shift must be in [0,0.5), got %f", c.Personalization.MaxShift)
	}
	if c.Personalization.MinRecords < 0 {
		return fmt.Errorf("min_records must be non-negative, got %d", c.Personalization.MinRecords)
	}
	if c.Conflict.ExemptDuration < 0 {
		return fmt.Errorf("exempt_duration must be non-negative, got %s", c.Conflict.ExemptDuration)
	}
	if c.MaxCandidates < 0 {
		return fmt.Errorf("max_candidates must be non-negative, got %d", c.MaxCandidates)
	}
	if c.ScoreTimeout <= 0 {
		return fmt.Errorf("score_timeout must be positive, got %s", c.ScoreTimeout)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() Config {
	clone := *c
	clone.Cascade = make([]TieBreaker, len(c.Cascade))
	copy(clone.Cascade, c.Cascade)
	return clone
}
