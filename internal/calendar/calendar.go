// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

// Package calendar provides the cultural calendar collaborator: festival
// data, poya-day rules, and cultural appropriateness verdicts for the
// ranking engine. The static engine ships a built-in multi-cultural
// festival table; production deployments can swap in a live data source
// behind the same ranking.Calendar interface.
package calendar

import (
	"context"
	"strings"
	"time"

	"github.com/lankaconnect/eventrank/internal/ranking"
)

// Festival is one culturally significant observance.
type Festival struct {
	// Name is the festival name.
	Name string

	// Date is the observance date.
	Date time.Time

	// Religious marks religious observances, which constrain what other
	// events are appropriate nearby.
	Religious bool

	// Quiet marks observances during which loud secular events are
	// discouraged (poya days, major religious holidays).
	Quiet bool
}

// proximityDays is the window around a quiet observance within which loud
// secular events draw a Caution or Avoid verdict.
const proximityDays = 1

// StaticEngine is the built-in calendar backed by a fixed festival table.
// Safe for concurrent use; the table is immutable after construction.
type StaticEngine struct {
	festivals []Festival
	byDate    map[string][]Festival
}

var _ ranking.Calendar = (*StaticEngine)(nil)

// NewStaticEngine creates a calendar over the given festival table. A nil
// table loads the built-in multi-cultural defaults.
func NewStaticEngine(festivals []Festival) *StaticEngine {
	if festivals == nil {
		festivals = DefaultFestivals()
	}
	byDate := make(map[string][]Festival, len(festivals))
	for _, f := range festivals {
		key := dateKey(f.Date)
		byDate[key] = append(byDate[key], f)
	}
	return &StaticEngine{festivals: festivals, byDate: byDate}
}

// IsSignificantDate reports whether the date carries a festival or poya
// observance.
func (e *StaticEngine) IsSignificantDate(_ context.Context, date time.Time) (bool, error) {
	_, ok := e.byDate[dateKey(date)]
	return ok, nil
}

// Appropriateness scores the event's cultural suitability for a user with
// the given background. Religious events aligned with a matching observance
// score highest; loud secular events on or next to quiet observances draw
// Caution or Avoid.
func (e *StaticEngine) Appropriateness(ctx context.Context, event *ranking.CandidateEvent, background string) (ranking.Appropriateness, error) {
	nature := event.Nature
	if nature == ranking.NatureUnknown {
		classified, err := e.ClassifyNature(ctx, event)
		if err != nil {
			return ranking.Appropriateness{}, err
		}
		nature = classified
	}
	if nature == ranking.NatureUnknown {
		return ranking.Appropriateness{
			Score:     ranking.NeutralScore,
			Level:     ranking.LevelUnknown,
			Rationale: "event nature could not be determined",
		}, nil
	}

	day := e.festivalsOn(event.StartTime)
	nearQuiet, quietName := e.quietObservanceNear(event.StartTime)

	switch nature {
	case ranking.NatureReligious:
		if len(day) > 0 {
			return ranking.Appropriateness{
				Score:     0.95,
				Level:     ranking.LevelAppropriate,
				Rationale: "religious event aligned with " + day[0].Name,
			}, nil
		}
		return ranking.Appropriateness{
			Score:     0.8,
			Level:     ranking.LevelAppropriate,
			Rationale: "religious event on an ordinary date",
		}, nil

	case ranking.NatureCultural, ranking.NatureMixed:
		if len(day) > 0 {
			return ranking.Appropriateness{
				Score:     0.9,
				Level:     ranking.LevelAppropriate,
				Rationale: "cultural event during " + day[0].Name,
			}, nil
		}
		if matchesBackground(event.Category, background) {
			return ranking.Appropriateness{
				Score:     0.85,
				Level:     ranking.LevelAppropriate,
				Rationale: "cultural event matching user background",
			}, nil
		}
		return ranking.Appropriateness{
			Score:     0.7,
			Level:     ranking.LevelAppropriate,
			Rationale: "cultural event",
		}, nil

	default:
		// Social and secular events clash with quiet observances.
		if nearQuiet {
			if onQuietDay(day) {
				return ranking.Appropriateness{
					Score:     0.15,
					Level:     ranking.LevelAvoid,
					Rationale: "secular event on " + quietName,
				}, nil
			}
			return ranking.Appropriateness{
				Score:     0.4,
				Level:     ranking.LevelCaution,
				Rationale: "secular event adjacent to " + quietName,
			}, nil
		}
		return ranking.Appropriateness{
			Score:     0.65,
			Level:     ranking.LevelAppropriate,
			Rationale: "secular event on an unconstrained date",
		}, nil
	}
}

// ClassifyNature infers nature from the declared category keywords.
func (e *StaticEngine) ClassifyNature(_ context.Context, event *ranking.CandidateEvent) (ranking.EventNature, error) {
	if event.Nature != ranking.NatureUnknown {
		return event.Nature, nil
	}
	category := strings.ToLower(event.Category)
	if category == "" {
		return ranking.NatureUnknown, nil
	}
	switch {
	case containsAny(category, "poya", "vesak", "poson", "temple", "kovil", "church", "mosque", "puja", "pirith", "dansala"):
		return ranking.NatureReligious, nil
	case containsAny(category, "new year", "avurudu", "pongal", "deepavali", "diwali", "festival", "perahera", "dance", "drama", "music", "heritage"):
		return ranking.NatureCultural, nil
	case containsAny(category, "party", "mixer", "networking", "meetup", "social", "dinner", "picnic"):
		return ranking.NatureSocial, nil
	case containsAny(category, "workshop", "seminar", "sports", "cricket", "career", "business"):
		return ranking.NatureSecular, nil
	default:
		return ranking.NatureUnknown, nil
	}
}

// festivalsOn returns observances on the given date.
func (e *StaticEngine) festivalsOn(date time.Time) []Festival {
	return e.byDate[dateKey(date)]
}

// quietObservanceNear reports whether a quiet observance falls within the
// proximity window of the date, and names it.
func (e *StaticEngine) quietObservanceNear(date time.Time) (bool, string) {
	for offset := -proximityDays; offset <= proximityDays; offset++ {
		for _, f := range e.byDate[dateKey(date.AddDate(0, 0, offset))] {
			if f.Quiet {
				return true, f.Name
			}
		}
	}
	return false, ""
}

// onQuietDay reports whether any of the day's own observances is quiet.
func onQuietDay(day []Festival) bool {
	for _, f := range day {
		if f.Quiet {
			return true
		}
	}
	return false
}

// matchesBackground reports whether the event category resonates with the
// user's cultural background keywords.
func matchesBackground(category, background string) bool {
	category = strings.ToLower(category)
	background = strings.ToLower(background)
	if category == "" || background == "" {
		return false
	}
	for _, word := range strings.Fields(background) {
		if strings.Contains(category, word) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
