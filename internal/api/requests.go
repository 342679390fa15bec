// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package api

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lankaconnect/eventrank/internal/ranking"
)

// RankRequest is the POST /api/v1/rankings payload.
type RankRequest struct {
	// User is the requesting user's context snapshot.
	User ranking.UserContext `json:"user" validate:"required"`

	// Candidates is the event set to rank.
	Candidates []ranking.CandidateEvent `json:"candidates" validate:"required,min=1,dive"`

	// Cascade optionally overrides the tie-break cascade by name:
	// "priority", "date", "distance", "popularity".
	Cascade []string `json:"cascade,omitempty" validate:"omitempty,dive,oneof=priority date distance popularity"`

	// SkipConflictResolution returns the full list without exclusions.
	SkipConflictResolution bool `json:"skip_conflict_resolution,omitempty"`
}

// Validate checks structural validity beyond tags.
func (req *RankRequest) Validate(v *validator.Validate) error {
	if err := v.Struct(req); err != nil {
		return err
	}
	if req.User.ID == "" {
		return fmt.Errorf("user.id is required")
	}
	for i := range req.Candidates {
		if req.Candidates[i].ID == "" {
			return fmt.Errorf("candidates[%d].id is required", i)
		}
		if req.Candidates[i].StartTime.IsZero() {
			return fmt.Errorf("candidates[%d].start_time is required", i)
		}
	}
	return nil
}

// Options converts the request into engine options.
func (req *RankRequest) Options(requestID string) (ranking.Options, error) {
	opts := ranking.Options{
		RequestID:              requestID,
		SkipConflictResolution: req.SkipConflictResolution,
	}
	for _, name := range req.Cascade {
		tb, err := parseTieBreaker(name)
		if err != nil {
			return ranking.Options{}, err
		}
		opts.Cascade = append(opts.Cascade, tb)
	}
	return opts, nil
}

// parseTieBreaker maps a cascade step name to its TieBreaker.
func parseTieBreaker(name string) (ranking.TieBreaker, error) {
	switch name {
	case "priority":
		return ranking.TieBreakPriority, nil
	case "date":
		return ranking.TieBreakDate, nil
	case "distance":
		return ranking.TieBreakDistance, nil
	case "popularity":
		return ranking.TieBreakPopularity, nil
	default:
		return 0, fmt.Errorf("unknown tie-breaker %q", name)
	}
}

// InteractionRequest is the POST /api/v1/interactions payload.
type InteractionRequest struct {
	// UserID identifies the interacting user.
	UserID string `json:"user_id" validate:"required"`

	// Event is the event interacted with; the ID is required.
	Event ranking.CandidateEvent `json:"event" validate:"required"`

	// Type names the interaction: view, click, register, attend, rate,
	// skip.
	Type string `json:"type" validate:"required,oneof=view click register attend rate skip"`

	// Rating is the user's rating in [0,5], for rate interactions.
	Rating float64 `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`

	// Criteria is the per-criterion score snapshot from the ranking that
	// surfaced the event.
	Criteria map[ranking.Criterion]float64 `json:"criteria,omitempty"`
}

// Interaction converts the request into a domain interaction.
func (req *InteractionRequest) Interaction(now time.Time) (ranking.Interaction, error) {
	t, err := parseInteractionType(req.Type)
	if err != nil {
		return ranking.Interaction{}, err
	}
	return ranking.Interaction{
		Type:      t,
		Strength:  req.Rating / 5.0,
		Timestamp: now,
		Criteria:  req.Criteria,
	}, nil
}

// parseInteractionType maps an interaction name to its type.
func parseInteractionType(name string) (ranking.InteractionType, error) {
	switch name {
	case "view":
		return ranking.InteractionView, nil
	case "click":
		return ranking.InteractionClick, nil
	case "register":
		return ranking.InteractionRegister, nil
	case "attend":
		return ranking.InteractionAttend, nil
	case "rate":
		return ranking.InteractionRate, nil
	case "skip":
		return ranking.InteractionSkip, nil
	default:
		return 0, fmt.Errorf("unknown interaction type %q", name)
	}
}

// ConfigUpdateRequest is the PUT /api/v1/rankings/config payload.
type ConfigUpdateRequest struct {
	// Config is the full replacement engine configuration.
	Config ranking.Config `json:"config" validate:"required"`
}
