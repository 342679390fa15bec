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

// ageDecayYears is the distance outside an event's age range at which the
// age score reaches zero.
const ageDecayYears = 15.0

// AgeScorer measures age-group suitability. Pure function of event and
// user.
type AgeScorer struct {
	BaseScorer
}

var _ ranking.Scorer = (*AgeScorer)(nil)

// NewAgeScorer creates an age suitability scorer.
func NewAgeScorer() *AgeScorer {
	return &AgeScorer{BaseScorer: NewBaseScorer(ranking.CriterionAge)}
}

// Score computes age suitability.
func (s *AgeScorer) Score(_ context.Context, event *ranking.CandidateEvent, user *ranking.UserContext, _ time.Time) (ranking.CriterionScore, error) {
	if user.Age <= 0 {
		return s.Neutral("user age undisclosed"), nil
	}
	if event.MinAge <= 0 && event.MaxAge <= 0 {
		return s.Scored(0.7, "open to all ages"), nil
	}

	var gap int
	switch {
	case event.MinAge > 0 && user.Age < event.MinAge:
		gap = event.MinAge - user.Age
	case event.MaxAge > 0 && user.Age > event.MaxAge:
		gap = user.Age - event.MaxAge
	default:
		return s.Scored(1.0, "age %d within event range", user.Age), nil
	}

	value := 1.0 - float64(gap)/ageDecayYears
	return s.Scored(value, "age %d is %d years outside event range", user.Age, gap), nil
}
