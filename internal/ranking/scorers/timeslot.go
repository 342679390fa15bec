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

// TimeSlotScorer measures how well the event's schedule matches the user's
// preferred and avoided time slots. Pure function of event and user.
type TimeSlotScorer struct {
	BaseScorer
}

var _ ranking.Scorer = (*TimeSlotScorer)(nil)

// NewTimeSlotScorer creates a time-slot compatibility scorer.
func NewTimeSlotScorer() *TimeSlotScorer {
	return &TimeSlotScorer{BaseScorer: NewBaseScorer(ranking.CriterionTimeSlot)}
}

// Score computes schedule compatibility.
func (s *TimeSlotScorer) Score(_ context.Context, event *ranking.CandidateEvent, user *ranking.UserContext, _ time.Time) (ranking.CriterionScore, error) {
	prefs := user.Time
	if len(prefs.PreferredDays) == 0 && len(prefs.AvoidedDays) == 0 && len(prefs.PreferredSlots) == 0 {
		return s.Neutral("no time preferences on file"), nil
	}

	day := event.StartTime.Weekday()
	if containsDay(prefs.AvoidedDays, day) {
		return s.Scored(0.1, "falls on avoided day %s", day), nil
	}

	value := ranking.NeutralScore
	if containsDay(prefs.PreferredDays, day) {
		value += 0.25
	}
	if slot, ok := bestSlot(prefs.PreferredSlots, event.StartTime.Hour()); ok {
		value += 0.25 * slot.Preference
		return s.Scored(value, "%s within preferred %02d:00-%02d:00 window", day, slot.StartHour, slot.EndHour), nil
	}
	return s.Scored(value, "starts %s %02d:00", day, event.StartTime.Hour()), nil
}

// bestSlot returns the highest-preference slot containing the start hour.
func bestSlot(slots []ranking.TimeSlot, hour int) (ranking.TimeSlot, bool) {
	var best ranking.TimeSlot
	found := false
	for _, slot := range slots {
		if hour < slot.StartHour || hour >= slot.EndHour {
			continue
		}
		if !found || slot.Preference > best.Preference {
			best = slot
			found = true
		}
	}
	return best, found
}

func containsDay(days []time.Weekday, day time.Weekday) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
