// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

// Package scorers provides the criterion scorer implementations consumed by
// the ranking engine. Each scorer evaluates one independent axis of fit
// between a candidate event and a user context, returning a raw score in
// [0,1] with a human-readable rationale.
//
// Scorers are total: missing or malformed per-event data produces the
// neutral midpoint with a fallback rationale, never an error. A scorer
// returns an error only when a backing collaborator (cultural calendar,
// geography service) is unavailable, which the engine converts into
// degraded mode for the whole criterion.
package scorers

import (
	"fmt"
	"strings"

	"github.com/lankaconnect/eventrank/internal/ranking"
)

// BaseScorer carries the criterion identity and shared fallback helpers.
// Embed it in concrete scorers.
type BaseScorer struct {
	criterion ranking.Criterion
}

// NewBaseScorer creates a base for the given criterion.
func NewBaseScorer(c ranking.Criterion) BaseScorer {
	return BaseScorer{criterion: c}
}

// Criterion returns the criterion this scorer computes.
func (b *BaseScorer) Criterion() ranking.Criterion {
	return b.criterion
}

// Neutral returns the neutral fallback score with the given rationale.
func (b *BaseScorer) Neutral(rationale string) ranking.CriterionScore {
	return ranking.CriterionScore{
		Criterion: b.criterion,
		Value:     ranking.NeutralScore,
		Rationale: rationale,
		Fallback:  true,
	}
}

// Scored builds a regular (non-fallback) criterion score, clamped to [0,1].
func (b *BaseScorer) Scored(value float64, format string, args ...any) ranking.CriterionScore {
	return ranking.CriterionScore{
		Criterion: b.criterion,
		Value:     clamp01(value),
		Rationale: fmt.Sprintf(format, args...),
	}
}

// clamp01 bounds v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// equalFold reports case-insensitive equality after trimming.
func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
