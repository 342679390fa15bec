// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

// Package geo provides the geographic proximity collaborator: haversine
// distance, multi-venue aggregation, transport accessibility, and
// border-region detection for the ranking engine.
package geo

import (
	"context"
	"math"
	"strings"

	"github.com/lankaconnect/eventrank/internal/ranking"
)

// earthRadiusKm is the mean Earth radius.
const earthRadiusKm = 6371.0

// defaultMaxTravelKm applies when the user sets no travel limit.
const defaultMaxTravelKm = 50.0

// BorderRegion is a circular area where jurisdiction or community
// assignment is ambiguous and proximity confidence drops.
type BorderRegion struct {
	Name     string
	Center   ranking.Location
	RadiusKm float64
}

// Service is the built-in geography collaborator. Safe for concurrent use.
type Service struct {
	borders []BorderRegion
}

var _ ranking.Geography = (*Service)(nil)

// NewService creates a geography service with the given border regions.
func NewService(borders []BorderRegion) *Service {
	return &Service{borders: borders}
}

// ProximityScore scores distance from home to the nearest venue with linear
// decay against the user's travel limit: 1.0 at the doorstep, 0.0 at or
// beyond the limit.
func (s *Service) ProximityScore(ctx context.Context, event *ranking.CandidateEvent, home ranking.Location, maxTravelKm float64) (float64, error) {
	km, err := s.DistanceKm(ctx, event, home)
	if err != nil {
		return 0, err
	}
	if km < 0 {
		return ranking.NeutralScore, nil
	}
	limit := maxTravelKm
	if limit <= 0 {
		limit = defaultMaxTravelKm
	}
	score := 1.0 - km/limit
	if score < 0 {
		return 0, nil
	}
	return score, nil
}

// TransportAccessibility scores reachability from the user's transport
// modes. Car access dominates; transit and walking matter for nearby
// events.
func (s *Service) TransportAccessibility(_ context.Context, event *ranking.CandidateEvent, prefs ranking.TransportPreferences) (float64, error) {
	if len(prefs.Modes) == 0 {
		return ranking.NeutralScore, nil
	}
	best := 0.0
	for _, mode := range prefs.Modes {
		if v := modeScore(mode); v > best {
			best = v
		}
	}
	// Large venues tend to sit near transit corridors.
	if event.Capacity >= 500 && best < 0.9 {
		best += 0.1
	}
	return best, nil
}

// DistanceKm returns the distance from home to the event's nearest venue.
// Returns -1 with nil error when the event carries no coordinates.
func (s *Service) DistanceKm(_ context.Context, event *ranking.CandidateEvent, home ranking.Location) (float64, error) {
	venues := eventVenues(event)
	if len(venues) == 0 {
		return -1, nil
	}
	nearest := math.MaxFloat64
	for _, v := range venues {
		if km := haversineKm(home, v); km < nearest {
			nearest = km
		}
	}
	return nearest, nil
}

// IsBorderLocation reports whether the location falls inside a configured
// border region.
func (s *Service) IsBorderLocation(_ context.Context, loc ranking.Location) (bool, error) {
	for _, b := range s.borders {
		if haversineKm(b.Center, loc) <= b.RadiusKm {
			return true, nil
		}
	}
	return false, nil
}

// eventVenues collects all venue coordinates for an event.
func eventVenues(event *ranking.CandidateEvent) []ranking.Location {
	var venues []ranking.Location
	if event.Coordinates != nil {
		venues = append(venues, *event.Coordinates)
	}
	venues = append(venues, event.Venues...)
	return venues
}

// modeScore maps a transport mode to a baseline accessibility value.
func modeScore(mode string) float64 {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "car":
		return 0.9
	case "transit", "bus", "train":
		return 0.7
	case "bike":
		return 0.5
	case "walk":
		return 0.3
	default:
		return 0.4
	}
}

// haversineKm computes the great-circle distance between two locations.
func haversineKm(a, b ranking.Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
