// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/lankaconnect/eventrank/internal/ranking"
)

func testFestivals() []Festival {
	return []Festival{
		{Name: "Binara Full Moon Poya Day", Date: time.Date(2026, 9, 26, 0, 0, 0, 0, time.UTC), Religious: true, Quiet: true},
		{Name: "Deepavali", Date: time.Date(2026, 11, 8, 0, 0, 0, 0, time.UTC)},
	}
}

func at(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestIsSignificantDate(t *testing.T) {
	t.Parallel()

	engine := NewStaticEngine(testFestivals())

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"poya day", at(2026, 9, 26, 18), true},
		{"festival day", at(2026, 11, 8, 10), true},
		{"ordinary day", at(2026, 9, 14, 10), false},
		{"day before poya", at(2026, 9, 25, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := engine.IsSignificantDate(context.Background(), tt.date)
			if err != nil {
				t.Fatalf("IsSignificantDate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsSignificantDate(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestAppropriateness(t *testing.T) {
	t.Parallel()

	engine := NewStaticEngine(testFestivals())

	tests := []struct {
		name       string
		event      ranking.CandidateEvent
		background string
		wantScore  float64
		wantLevel  ranking.AppropriatenessLevel
	}{
		{
			name:      "religious event on poya day",
			event:     ranking.CandidateEvent{Nature: ranking.NatureReligious, StartTime: at(2026, 9, 26, 6)},
			wantScore: 0.95,
			wantLevel: ranking.LevelAppropriate,
		},
		{
			name:      "religious event on ordinary day",
			event:     ranking.CandidateEvent{Nature: ranking.NatureReligious, StartTime: at(2026, 9, 14, 6)},
			wantScore: 0.8,
			wantLevel: ranking.LevelAppropriate,
		},
		{
			name:      "cultural event during festival",
			event:     ranking.CandidateEvent{Nature: ranking.NatureCultural, StartTime: at(2026, 11, 8, 18)},
			wantScore: 0.9,
			wantLevel: ranking.LevelAppropriate,
		},
		{
			name:       "cultural event matching background",
			event:      ranking.CandidateEvent{Nature: ranking.NatureCultural, Category: "tamil heritage evening", StartTime: at(2026, 10, 3, 18)},
			background: "tamil hindu",
			wantScore:  0.85,
			wantLevel:  ranking.LevelAppropriate,
		},
		{
			name:      "plain cultural event",
			event:     ranking.CandidateEvent{Nature: ranking.NatureCultural, StartTime: at(2026, 10, 3, 18)},
			wantScore: 0.7,
			wantLevel: ranking.LevelAppropriate,
		},
		{
			name:      "secular party on poya day",
			event:     ranking.CandidateEvent{Nature: ranking.NatureSocial, StartTime: at(2026, 9, 26, 21)},
			wantScore: 0.15,
			wantLevel: ranking.LevelAvoid,
		},
		{
			name:      "secular party the day before poya",
			event:     ranking.CandidateEvent{Nature: ranking.NatureSocial, StartTime: at(2026, 9, 25, 21)},
			wantScore: 0.4,
			wantLevel: ranking.LevelCaution,
		},
		{
			name:      "secular party the day after poya",
			event:     ranking.CandidateEvent{Nature: ranking.NatureSocial, StartTime: at(2026, 9, 27, 21)},
			wantScore: 0.4,
			wantLevel: ranking.LevelCaution,
		},
		{
			name:      "secular event on unconstrained date",
			event:     ranking.CandidateEvent{Nature: ranking.NatureSecular, StartTime: at(2026, 9, 14, 19)},
			wantScore: 0.65,
			wantLevel: ranking.LevelAppropriate,
		},
		{
			name:      "secular event near non-quiet festival unconstrained",
			event:     ranking.CandidateEvent{Nature: ranking.NatureSocial, StartTime: at(2026, 11, 8, 19)},
			wantScore: 0.65,
			wantLevel: ranking.LevelAppropriate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := engine.Appropriateness(context.Background(), &tt.event, tt.background)
			if err != nil {
				t.Fatalf("Appropriateness() error = %v", err)
			}
			if got.Score != tt.wantScore {
				t.Errorf("Score = %f, want %f (%s)", got.Score, tt.wantScore, got.Rationale)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("Level = %v, want %v (%s)", got.Level, tt.wantLevel, got.Rationale)
			}
		})
	}

	t.Run("unclassifiable event is unknown", func(t *testing.T) {
		t.Parallel()
		ev := ranking.CandidateEvent{StartTime: at(2026, 9, 14, 19)}
		got, err := engine.Appropriateness(context.Background(), &ev, "")
		if err != nil {
			t.Fatalf("Appropriateness() error = %v", err)
		}
		if got.Level != ranking.LevelUnknown {
			t.Errorf("Level = %v, want LevelUnknown", got.Level)
		}
		if got.Score != ranking.NeutralScore {
			t.Errorf("Score = %f, want neutral", got.Score)
		}
	})

	t.Run("classification applies when nature undeclared", func(t *testing.T) {
		t.Parallel()
		ev := ranking.CandidateEvent{Category: "Temple Pirith Ceremony", StartTime: at(2026, 9, 26, 6)}
		got, err := engine.Appropriateness(context.Background(), &ev, "")
		if err != nil {
			t.Fatalf("Appropriateness() error = %v", err)
		}
		if got.Score != 0.95 || got.Level != ranking.LevelAppropriate {
			t.Errorf("got %+v, want religious-on-poya verdict", got)
		}
	})
}

func TestClassifyNature(t *testing.T) {
	t.Parallel()

	engine := NewStaticEngine(nil)

	tests := []struct {
		category string
		want     ranking.EventNature
	}{
		{"Vesak Lantern Display", ranking.NatureReligious},
		{"Kovil Puja", ranking.NatureReligious},
		{"Avurudu Celebration", ranking.NatureCultural},
		{"Perahera Procession", ranking.NatureCultural},
		{"Traditional Dance Night", ranking.NatureCultural},
		{"Networking Mixer", ranking.NatureSocial},
		{"Community Picnic", ranking.NatureSocial},
		{"Cricket Tournament", ranking.NatureSecular},
		{"Career Workshop", ranking.NatureSecular},
		{"", ranking.NatureUnknown},
		{"Quarterly Gathering", ranking.NatureUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			t.Parallel()
			ev := ranking.CandidateEvent{Category: tt.category}
			got, err := engine.ClassifyNature(context.Background(), &ev)
			if err != nil {
				t.Fatalf("ClassifyNature() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ClassifyNature(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}

	t.Run("declared nature wins over keywords", func(t *testing.T) {
		t.Parallel()
		ev := ranking.CandidateEvent{Category: "Cricket Tournament", Nature: ranking.NatureCultural}
		got, err := engine.ClassifyNature(context.Background(), &ev)
		if err != nil {
			t.Fatalf("ClassifyNature() error = %v", err)
		}
		if got != ranking.NatureCultural {
			t.Errorf("ClassifyNature() = %v, want declared NatureCultural", got)
		}
	})
}

func TestDefaultFestivals(t *testing.T) {
	t.Parallel()

	engine := NewStaticEngine(nil)

	// Vesak poya 2026 is a built-in quiet observance.
	got, err := engine.IsSignificantDate(context.Background(), at(2026, 5, 1, 12))
	if err != nil {
		t.Fatalf("IsSignificantDate() error = %v", err)
	}
	if !got {
		t.Error("Vesak poya day missing from default table")
	}

	festivals := DefaultFestivals()
	if len(festivals) == 0 {
		t.Fatal("default festival table is empty")
	}
	quiet := 0
	for _, f := range festivals {
		if f.Quiet {
			quiet++
		}
	}
	if quiet < 12 {
		t.Errorf("default table has %d quiet observances, want at least the monthly poya days", quiet)
	}
}
