// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package scorers

import (
	"context"
	"fmt"
	"time"

	"github.com/lankaconnect/eventrank/internal/ranking"
)

// CulturalScorer measures cultural appropriateness through the cultural
// calendar collaborator. The calendar owns festival data and timing rules;
// this scorer modulates its verdict by the user's stated sensitivity and
// festival-alignment preference.
type CulturalScorer struct {
	BaseScorer
	calendar ranking.Calendar
}

var _ ranking.Scorer = (*CulturalScorer)(nil)

// NewCulturalScorer creates a cultural appropriateness scorer.
func NewCulturalScorer(calendar ranking.Calendar) *CulturalScorer {
	return &CulturalScorer{
		BaseScorer: NewBaseScorer(ranking.CriterionCultural),
		calendar:   calendar,
	}
}

// Score computes the cultural fit of the event for the user.
func (s *CulturalScorer) Score(ctx context.Context, event *ranking.CandidateEvent, user *ranking.UserContext, _ time.Time) (ranking.CriterionScore, error) {
	app, err := s.calendar.Appropriateness(ctx, event, user.CulturalBackground)
	if err != nil {
		return ranking.CriterionScore{}, fmt.Errorf("cultural appropriateness: %w", err)
	}
	if app.Level == ranking.LevelUnknown {
		return s.Neutral("calendar could not classify event"), nil
	}

	value := app.Score * sensitivityFactor(user.Sensitivity, app.Level)

	if user.PrefersFestivalAlignment && app.Level == ranking.LevelAppropriate {
		significant, err := s.calendar.IsSignificantDate(ctx, event.StartTime)
		if err != nil {
			return ranking.CriterionScore{}, fmt.Errorf("significant date lookup: %w", err)
		}
		if significant {
			value += 0.2
			return s.Scored(value, "%s; festival-aligned date", app.Rationale), nil
		}
	}
	return s.Scored(value, "%s (%s)", app.Rationale, app.Level), nil
}

// sensitivityFactor scales a verdict by how much the user cares about
// cultural timing. Sensitive users punish Caution/Avoid verdicts harder;
// low-sensitivity users barely distinguish them.
func sensitivityFactor(sensitivity ranking.CulturalSensitivity, level ranking.AppropriatenessLevel) float64 {
	if level == ranking.LevelAppropriate {
		return 1.0
	}
	switch sensitivity {
	case ranking.SensitivityLow:
		return 0.9
	case ranking.SensitivityHigh:
		if level == ranking.LevelAvoid {
			return 0.2
		}
		return 0.6
	case ranking.SensitivityVeryHigh:
		if level == ranking.LevelAvoid {
			return 0.0
		}
		return 0.4
	default:
		if level == ranking.LevelAvoid {
			return 0.4
		}
		return 0.75
	}
}
