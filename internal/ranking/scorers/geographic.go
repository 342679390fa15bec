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

// proximityShare is the weight of raw proximity against transport
// accessibility in the geographic score.
const proximityShare = 0.7

// GeographicScorer measures proximity and reachability through the
// geography collaborator. Multi-venue aggregation and distance math live in
// the collaborator; region-only events fall back to a region match.
type GeographicScorer struct {
	BaseScorer
	geo ranking.Geography
}

var _ ranking.Scorer = (*GeographicScorer)(nil)

// NewGeographicScorer creates a geographic proximity scorer.
func NewGeographicScorer(geo ranking.Geography) *GeographicScorer {
	return &GeographicScorer{
		BaseScorer: NewBaseScorer(ranking.CriterionGeographic),
		geo:        geo,
	}
}

// Score computes the geographic fit of the event for the user.
func (s *GeographicScorer) Score(ctx context.Context, event *ranking.CandidateEvent, user *ranking.UserContext, _ time.Time) (ranking.CriterionScore, error) {
	if user.Home == nil {
		return s.Neutral("user home location unknown"), nil
	}
	if event.Coordinates == nil && len(event.Venues) == 0 {
		if event.Region != "" && equalFold(event.Region, user.Region) {
			return s.Scored(0.6, "no coordinates; same region %q", event.Region), nil
		}
		return s.Neutral("event location unknown"), nil
	}

	proximity, err := s.geo.ProximityScore(ctx, event, *user.Home, user.Transport.MaxTravelKm)
	if err != nil {
		return ranking.CriterionScore{}, fmt.Errorf("proximity score: %w", err)
	}
	transport, err := s.geo.TransportAccessibility(ctx, event, user.Transport)
	if err != nil {
		return ranking.CriterionScore{}, fmt.Errorf("transport accessibility: %w", err)
	}

	value := proximityShare*proximity + (1-proximityShare)*transport
	return s.Scored(value, "proximity %.2f, transport accessibility %.2f", proximity, transport), nil
}
