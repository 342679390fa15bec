// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package scorers

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/lankaconnect/eventrank/internal/ranking"
)

var errDown = errors.New("collaborator down")

// fakeCalendar serves a canned appropriateness verdict.
type fakeCalendar struct {
	app         ranking.Appropriateness
	significant bool
	appErr      error
	sigErr      error
}

func (f *fakeCalendar) IsSignificantDate(context.Context, time.Time) (bool, error) {
	return f.significant, f.sigErr
}

func (f *fakeCalendar) Appropriateness(context.Context, *ranking.CandidateEvent, string) (ranking.Appropriateness, error) {
	return f.app, f.appErr
}

func (f *fakeCalendar) ClassifyNature(context.Context, *ranking.CandidateEvent) (ranking.EventNature, error) {
	return ranking.NatureUnknown, nil
}

// fakeGeo serves canned proximity and transport scores.
type fakeGeo struct {
	proximity float64
	transport float64
	proxErr   error
	transErr  error
}

func (f *fakeGeo) ProximityScore(context.Context, *ranking.CandidateEvent, ranking.Location, float64) (float64, error) {
	return f.proximity, f.proxErr
}

func (f *fakeGeo) TransportAccessibility(context.Context, *ranking.CandidateEvent, ranking.TransportPreferences) (float64, error) {
	return f.transport, f.transErr
}

func (f *fakeGeo) DistanceKm(context.Context, *ranking.CandidateEvent, ranking.Location) (float64, error) {
	return 0, nil
}

func (f *fakeGeo) IsBorderLocation(context.Context, ranking.Location) (bool, error) {
	return false, nil
}

func assertScore(t *testing.T, got ranking.CriterionScore, want float64) {
	t.Helper()
	if math.Abs(got.Value-want) > 1e-9 {
		t.Errorf("Value = %f, want %f (%s)", got.Value, want, got.Rationale)
	}
}

func assertNeutralFallback(t *testing.T, got ranking.CriterionScore) {
	t.Helper()
	if got.Value != ranking.NeutralScore || !got.Fallback {
		t.Errorf("got %+v, want neutral fallback", got)
	}
}

func TestCulturalScorer(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	event := &ranking.CandidateEvent{ID: "ev", StartTime: now}

	tests := []struct {
		name string
		cal  *fakeCalendar
		user ranking.UserContext
		want float64
	}{
		{
			name: "appropriate full score",
			cal:  &fakeCalendar{app: ranking.Appropriateness{Score: 0.8, Level: ranking.LevelAppropriate}},
			user: ranking.UserContext{Sensitivity: ranking.SensitivityMedium},
			want: 0.8,
		},
		{
			name: "caution scaled for medium sensitivity",
			cal:  &fakeCalendar{app: ranking.Appropriateness{Score: 0.4, Level: ranking.LevelCaution}},
			user: ranking.UserContext{Sensitivity: ranking.SensitivityMedium},
			want: 0.4 * 0.75,
		},
		{
			name: "caution barely discounted for low sensitivity",
			cal:  &fakeCalendar{app: ranking.Appropriateness{Score: 0.4, Level: ranking.LevelCaution}},
			user: ranking.UserContext{Sensitivity: ranking.SensitivityLow},
			want: 0.4 * 0.9,
		},
		{
			name: "avoid zeroed for very high sensitivity",
			cal:  &fakeCalendar{app: ranking.Appropriateness{Score: 0.3, Level: ranking.LevelAvoid}},
			user: ranking.UserContext{Sensitivity: ranking.SensitivityVeryHigh},
			want: 0,
		},
		{
			name: "avoid crushed for high sensitivity",
			cal:  &fakeCalendar{app: ranking.Appropriateness{Score: 0.3, Level: ranking.LevelAvoid}},
			user: ranking.UserContext{Sensitivity: ranking.SensitivityHigh},
			want: 0.3 * 0.2,
		},
		{
			name: "festival alignment bonus",
			cal:  &fakeCalendar{app: ranking.Appropriateness{Score: 0.7, Level: ranking.LevelAppropriate}, significant: true},
			user: ranking.UserContext{PrefersFestivalAlignment: true},
			want: 0.9,
		},
		{
			name: "no bonus without preference",
			cal:  &fakeCalendar{app: ranking.Appropriateness{Score: 0.7, Level: ranking.LevelAppropriate}, significant: true},
			user: ranking.UserContext{},
			want: 0.7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewCulturalScorer(tt.cal)
			got, err := s.Score(context.Background(), event, &tt.user, now)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			assertScore(t, got, tt.want)
		})
	}

	t.Run("unknown level falls back to neutral", func(t *testing.T) {
		t.Parallel()
		s := NewCulturalScorer(&fakeCalendar{app: ranking.Appropriateness{Level: ranking.LevelUnknown}})
		got, err := s.Score(context.Background(), event, &ranking.UserContext{}, now)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		assertNeutralFallback(t, got)
	})

	t.Run("calendar outage propagates", func(t *testing.T) {
		t.Parallel()
		s := NewCulturalScorer(&fakeCalendar{appErr: errDown})
		if _, err := s.Score(context.Background(), event, &ranking.UserContext{}, now); !errors.Is(err, errDown) {
			t.Errorf("Score() error = %v, want errDown", err)
		}
	})
}

func TestGeographicScorer(t *testing.T) {
	t.Parallel()

	now := time.Now()
	home := &ranking.Location{Lat: 51.5, Lon: -0.12}
	located := &ranking.CandidateEvent{ID: "ev", Coordinates: &ranking.Location{Lat: 51.6, Lon: -0.1}, StartTime: now}

	t.Run("blends proximity and transport", func(t *testing.T) {
		t.Parallel()
		s := NewGeographicScorer(&fakeGeo{proximity: 0.8, transport: 0.6})
		got, err := s.Score(context.Background(), located, &ranking.UserContext{Home: home}, now)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		assertScore(t, got, 0.7*0.8+0.3*0.6)
	})

	t.Run("no home is neutral", func(t *testing.T) {
		t.Parallel()
		s := NewGeographicScorer(&fakeGeo{proximity: 0.9, transport: 0.9})
		got, err := s.Score(context.Background(), located, &ranking.UserContext{}, now)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		assertNeutralFallback(t, got)
	})

	t.Run("region match without coordinates", func(t *testing.T) {
		t.Parallel()
		s := NewGeographicScorer(&fakeGeo{})
		ev := &ranking.CandidateEvent{ID: "ev", Region: "Western", StartTime: now}
		user := &ranking.UserContext{Home: home, Region: "western"}
		got, err := s.Score(context.Background(), ev, user, now)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		assertScore(t, got, 0.6)
	})

	t.Run("no location data is neutral", func(t *testing.T) {
		t.Parallel()
		s := NewGeographicScorer(&fakeGeo{})
		ev := &ranking.CandidateEvent{ID: "ev", StartTime: now}
		got, err := s.Score(context.Background(), ev, &ranking.UserContext{Home: home}, now)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		assertNeutralFallback(t, got)
	})

	t.Run("geography outage propagates", func(t *testing.T) {
		t.Parallel()
		s := NewGeographicScorer(&fakeGeo{proxErr: errDown})
		if _, err := s.Score(context.Background(), located, &ranking.UserContext{Home: home}, now); !errors.Is(err, errDown) {
			t.Errorf("Score() error = %v, want errDown", err)
		}
	})
}

func TestTimeSlotScorer(t *testing.T) {
	t.Parallel()

	// 2026-09-12 is a Saturday; start hour 19.
	saturdayEvening := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	event := &ranking.CandidateEvent{ID: "ev", StartTime: saturdayEvening}
	s := NewTimeSlotScorer()

	tests := []struct {
		name string
		time ranking.TimePreferences
		want float64
	}{
		{
			name: "avoided day floors the score",
			time: ranking.TimePreferences{AvoidedDays: []time.Weekday{time.Saturday}},
			want: 0.1,
		},
		{
			name: "preferred day bonus",
			time: ranking.TimePreferences{PreferredDays: []time.Weekday{time.Saturday}},
			want: 0.75,
		},
		{
			name: "preferred slot bonus",
			time: ranking.TimePreferences{PreferredSlots: []ranking.TimeSlot{
				{StartHour: 18, EndHour: 22, Preference: 1.0},
			}},
			want: 0.75,
		},
		{
			name: "day and slot stack",
			time: ranking.TimePreferences{
				PreferredDays:  []time.Weekday{time.Saturday},
				PreferredSlots: []ranking.TimeSlot{{StartHour: 18, EndHour: 22, Preference: 0.8}},
			},
			want: 0.5 + 0.25 + 0.25*0.8,
		},
		{
			name: "highest-preference containing slot wins",
			time: ranking.TimePreferences{PreferredSlots: []ranking.TimeSlot{
				{StartHour: 17, EndHour: 20, Preference: 0.4},
				{StartHour: 18, EndHour: 23, Preference: 0.9},
				{StartHour: 8, EndHour: 12, Preference: 1.0}, // does not contain 19
			}},
			want: 0.5 + 0.25*0.9,
		},
		{
			name: "unmatched slot leaves the base",
			time: ranking.TimePreferences{PreferredSlots: []ranking.TimeSlot{
				{StartHour: 8, EndHour: 12, Preference: 1.0},
			}},
			want: 0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			user := &ranking.UserContext{Time: tt.time}
			got, err := s.Score(context.Background(), event, user, saturdayEvening)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			assertScore(t, got, tt.want)
		})
	}

	t.Run("no preferences is neutral", func(t *testing.T) {
		t.Parallel()
		got, err := s.Score(context.Background(), event, &ranking.UserContext{}, saturdayEvening)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		assertNeutralFallback(t, got)
	})
}

func TestFamilyScorer(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := NewFamilyScorer()

	tests := []struct {
		name   string
		event  ranking.CandidateEvent
		family ranking.FamilyProfile
		want   float64
	}{
		{
			name:   "children at adults-only event",
			event:  ranking.CandidateEvent{AdultsOnly: true},
			family: ranking.FamilyProfile{HasChildren: true},
			want:   0.1,
		},
		{
			name:   "children at family event",
			event:  ranking.CandidateEvent{FamilyFriendly: true},
			family: ranking.FamilyProfile{HasChildren: true, FamilyEventPreference: 1.0},
			want:   1.0,
		},
		{
			name:   "child below event minimum age",
			event:  ranking.CandidateEvent{FamilyFriendly: true, MinAge: 8},
			family: ranking.FamilyProfile{HasChildren: true, ChildrenAges: []int{5, 12}, FamilyEventPreference: 0.5},
			want:   0.6 + 0.4*0.5 - 0.3,
		},
		{
			name:   "children, no family accommodations",
			event:  ranking.CandidateEvent{},
			family: ranking.FamilyProfile{HasChildren: true},
			want:   0.4,
		},
		{
			name:   "adult-only preference at adults-only event",
			event:  ranking.CandidateEvent{AdultsOnly: true},
			family: ranking.FamilyProfile{AdultOnlyPreference: 1.0},
			want:   1.0,
		},
		{
			name:   "no children at family event",
			event:  ranking.CandidateEvent{FamilyFriendly: true},
			family: ranking.FamilyProfile{AdultOnlyPreference: 0.5},
			want:   0.6 - 0.2*0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			user := &ranking.UserContext{Family: tt.family}
			got, err := s.Score(context.Background(), &tt.event, user, now)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			assertScore(t, got, tt.want)
		})
	}

	t.Run("no signals either way is neutral", func(t *testing.T) {
		t.Parallel()
		got, err := s.Score(context.Background(), &ranking.CandidateEvent{}, &ranking.UserContext{}, now)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		assertNeutralFallback(t, got)
	})
}

func TestAgeScorer(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := NewAgeScorer()

	tests := []struct {
		name  string
		event ranking.CandidateEvent
		age   int
		want  float64
	}{
		{"open to all ages", ranking.CandidateEvent{}, 30, 0.7},
		{"within range", ranking.CandidateEvent{MinAge: 18, MaxAge: 35}, 30, 1.0},
		{"at boundary", ranking.CandidateEvent{MinAge: 18, MaxAge: 35}, 35, 1.0},
		{"slightly under", ranking.CandidateEvent{MinAge: 18}, 15, 1.0 - 3.0/15.0},
		{"slightly over", ranking.CandidateEvent{MaxAge: 35}, 40, 1.0 - 5.0/15.0},
		{"far outside clamps to zero", ranking.CandidateEvent{MaxAge: 30}, 70, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			user := &ranking.UserContext{Age: tt.age}
			got, err := s.Score(context.Background(), &tt.event, user, now)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			assertScore(t, got, tt.want)
		})
	}

	t.Run("undisclosed age is neutral", func(t *testing.T) {
		t.Parallel()
		ev := &ranking.CandidateEvent{MinAge: 18}
		got, err := s.Score(context.Background(), ev, &ranking.UserContext{}, now)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		assertNeutralFallback(t, got)
	})
}

func TestLanguageScorer(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := NewLanguageScorer()
	polyglot := []ranking.LanguageSkill{
		{Language: "Sinhala", Proficiency: 1.0},
		{Language: "Tamil", Proficiency: 0.4},
		{Language: "English", Proficiency: 0.8},
	}

	tests := []struct {
		name      string
		languages []string
		skills    []ranking.LanguageSkill
		want      float64
	}{
		{"fluent match", []string{"sinhala"}, polyglot, 0.3 + 0.7*1.0},
		{"best of several matches", []string{"tamil", "english"}, polyglot, 0.3 + 0.7*0.8},
		{"weak shared language beats none", []string{"tamil"}, polyglot, 0.3 + 0.7*0.4},
		{"no shared language", []string{"hindi"}, polyglot, 0.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ev := &ranking.CandidateEvent{Languages: tt.languages}
			user := &ranking.UserContext{Languages: tt.skills}
			got, err := s.Score(context.Background(), ev, user, now)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			assertScore(t, got, tt.want)
		})
	}

	t.Run("undeclared event languages neutral", func(t *testing.T) {
		t.Parallel()
		got, err := s.Score(context.Background(), &ranking.CandidateEvent{}, &ranking.UserContext{Languages: polyglot}, now)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		assertNeutralFallback(t, got)
	})

	t.Run("unknown user languages neutral", func(t *testing.T) {
		t.Parallel()
		ev := &ranking.CandidateEvent{Languages: []string{"sinhala"}}
		got, err := s.Score(context.Background(), ev, &ranking.UserContext{}, now)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		assertNeutralFallback(t, got)
	})
}

func TestInvolvementScorer(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := NewInvolvementScorer()

	tests := []struct {
		name        string
		commitment  ranking.CommitmentLevel
		involvement ranking.InvolvementProfile
		want        float64
	}{
		{
			name:        "exact match",
			commitment:  ranking.CommitmentMedium,
			involvement: ranking.InvolvementProfile{Capacity: ranking.CommitmentMedium},
			want:        1.0,
		},
		{
			name:        "event over-demands by one",
			commitment:  ranking.CommitmentHigh,
			involvement: ranking.InvolvementProfile{Capacity: ranking.CommitmentMedium},
			want:        0.7,
		},
		{
			name:        "event over-demands by two",
			commitment:  ranking.CommitmentHigh,
			involvement: ranking.InvolvementProfile{Capacity: ranking.CommitmentLow},
			want:        0.4,
		},
		{
			name:        "light event for capable user",
			commitment:  ranking.CommitmentLow,
			involvement: ranking.InvolvementProfile{Capacity: ranking.CommitmentHigh},
			want:        0.9 + 0.05*(-2),
		},
		{
			name:       "light event under-serves active member",
			commitment: ranking.CommitmentLow,
			involvement: ranking.InvolvementProfile{
				Level:    ranking.InvolvementActive,
				Capacity: ranking.CommitmentMedium,
			},
			want: 0.9 + 0.05*(-1) - 0.1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ev := &ranking.CandidateEvent{Commitment: tt.commitment}
			user := &ranking.UserContext{Involvement: tt.involvement}
			got, err := s.Score(context.Background(), ev, user, now)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			assertScore(t, got, tt.want)
		})
	}
}

func TestScorerCriteria(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scorer ranking.Scorer
		want   ranking.Criterion
	}{
		{NewCulturalScorer(&fakeCalendar{}), ranking.CriterionCultural},
		{NewGeographicScorer(&fakeGeo{}), ranking.CriterionGeographic},
		{NewTimeSlotScorer(), ranking.CriterionTimeSlot},
		{NewFamilyScorer(), ranking.CriterionFamily},
		{NewAgeScorer(), ranking.CriterionAge},
		{NewLanguageScorer(), ranking.CriterionLanguage},
		{NewInvolvementScorer(), ranking.CriterionInvolvement},
	}
	for _, tt := range tests {
		if got := tt.scorer.Criterion(); got != tt.want {
			t.Errorf("Criterion() = %v, want %v", got, tt.want)
		}
	}
}
