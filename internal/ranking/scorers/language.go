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

// LanguageScorer measures language overlap between the event and the user,
// weighted by proficiency. Pure function of event and user.
type LanguageScorer struct {
	BaseScorer
}

var _ ranking.Scorer = (*LanguageScorer)(nil)

// NewLanguageScorer creates a language accessibility scorer.
func NewLanguageScorer() *LanguageScorer {
	return &LanguageScorer{BaseScorer: NewBaseScorer(ranking.CriterionLanguage)}
}

// Score computes language accessibility.
func (s *LanguageScorer) Score(_ context.Context, event *ranking.CandidateEvent, user *ranking.UserContext, _ time.Time) (ranking.CriterionScore, error) {
	if len(event.Languages) == 0 {
		return s.Neutral("event languages undeclared"), nil
	}
	if len(user.Languages) == 0 {
		return s.Neutral("user languages unknown"), nil
	}

	best := -1.0
	bestLang := ""
	for _, evLang := range event.Languages {
		for _, skill := range user.Languages {
			if equalFold(evLang, skill.Language) && skill.Proficiency > best {
				best = skill.Proficiency
				bestLang = skill.Language
			}
		}
	}
	if best < 0 {
		return s.Scored(0.15, "no shared language"), nil
	}
	// Even a weak shared language beats none; full proficiency reaches 1.0.
	value := 0.3 + 0.7*best
	return s.Scored(value, "shares %s at proficiency %.2f", bestLang, best), nil
}
