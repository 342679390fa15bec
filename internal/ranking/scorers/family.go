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

// FamilyScorer measures family-friendliness fit against the user's family
// profile. Pure function of event and user.
type FamilyScorer struct {
	BaseScorer
}

var _ ranking.Scorer = (*FamilyScorer)(nil)

// NewFamilyScorer creates a family compatibility scorer.
func NewFamilyScorer() *FamilyScorer {
	return &FamilyScorer{BaseScorer: NewBaseScorer(ranking.CriterionFamily)}
}

// Score computes family compatibility.
func (s *FamilyScorer) Score(_ context.Context, event *ranking.CandidateEvent, user *ranking.UserContext, _ time.Time) (ranking.CriterionScore, error) {
	family := user.Family

	if family.HasChildren {
		switch {
		case event.AdultsOnly:
			return s.Scored(0.1, "adults-only event, user attends with children"), nil
		case event.FamilyFriendly:
			value := 0.6 + 0.4*family.FamilyEventPreference
			if excluded, age := childBelowMinAge(family.ChildrenAges, event.MinAge); excluded {
				value -= 0.3
				return s.Scored(value, "family-friendly but minimum age %d excludes child aged %d", event.MinAge, age), nil
			}
			return s.Scored(value, "family-friendly event matches family profile"), nil
		default:
			return s.Scored(0.4, "no family accommodations declared"), nil
		}
	}

	switch {
	case event.AdultsOnly:
		return s.Scored(0.5+0.5*family.AdultOnlyPreference, "adults-only event"), nil
	case event.FamilyFriendly:
		// Family events are still open to users without children, but
		// a strong adult-only preference discounts them.
		return s.Scored(0.6-0.2*family.AdultOnlyPreference, "family-friendly event, no children in profile"), nil
	default:
		return s.Neutral("no family signals on event"), nil
	}
}

// childBelowMinAge reports whether any child is younger than the event's
// minimum age, returning the youngest offending age.
func childBelowMinAge(ages []int, minAge int) (bool, int) {
	if minAge <= 0 {
		return false, 0
	}
	for _, age := range ages {
		if age < minAge {
			return true, age
		}
	}
	return false, 0
}
