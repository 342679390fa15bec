// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package scorers

import (
	"context"
	"time"

	"github.com/lankaconnect/eventrank/internal/ranking"
)

// InvolvementScorer measures commitment-level fit between what the event
// expects and what the user can take on. Pure function of event and user.
type InvolvementScorer struct {
	BaseScorer
}

var _ ranking.Scorer = (*InvolvementScorer)(nil)

// NewInvolvementScorer creates a community involvement scorer.
func NewInvolvementScorer() *InvolvementScorer {
	return &InvolvementScorer{BaseScorer: NewBaseScorer(ranking.CriterionInvolvement)}
}

// Score computes involvement fit.
func (s *InvolvementScorer) Score(_ context.Context, event *ranking.CandidateEvent, user *ranking.UserContext, _ time.Time) (ranking.CriterionScore, error) {
	demand := event.Commitment
	capacity := user.Involvement.Capacity

	gap := int(demand) - int(capacity)
	switch {
	case gap > 0:
		// The event asks for more than the user can commit.
		value := 1.0 - 0.3*float64(gap)
		return s.Scored(value, "event demands %s commitment, user capacity is %s", demand, capacity), nil
	case gap < 0:
		// Light events slightly under-serve highly involved users.
		value := 0.9 + 0.05*float64(gap)
		if user.Involvement.Level >= ranking.InvolvementActive && demand <= ranking.CommitmentLow {
			value -= 0.1
		}
		return s.Scored(value, "%s commitment is below user capacity %s", demand, capacity), nil
	default:
		return s.Scored(1.0, "commitment level %s matches user capacity", demand), nil
	}
}
