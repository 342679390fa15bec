// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

// Package prefs provides the user preference collaborator: scoring weight
// profiles and attendance history, with an in-memory store for tests and
// small deployments and a BadgerDB-backed store for durable learning.
package prefs

import (
	"context"
	"sync"

	"github.com/lankaconnect/eventrank/internal/ranking"
)

// maxHistoryRecords caps stored attendance records per user; the oldest
// records roll off.
const maxHistoryRecords = 200

// MemoryStore is an in-process preference store. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	weights  map[string]ranking.Weights
	history  map[string]ranking.AttendanceHistory
	defaults ranking.Weights
}

var _ ranking.PreferenceStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store. Users without a stored
// profile get the default weight vector.
func NewMemoryStore(defaults ranking.Weights) *MemoryStore {
	return &MemoryStore{
		weights:  make(map[string]ranking.Weights),
		history:  make(map[string]ranking.AttendanceHistory),
		defaults: defaults,
	}
}

// ScoringWeights returns the user's weight vector, or the defaults.
func (s *MemoryStore) ScoringWeights(_ context.Context, userID string) (ranking.Weights, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if w, ok := s.weights[userID]; ok {
		return w, nil
	}
	return s.defaults, nil
}

// SetScoringWeights stores a weight vector for the user.
func (s *MemoryStore) SetScoringWeights(_ context.Context, userID string, w ranking.Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights[userID] = w
	return nil
}

// AttendanceHistory returns the user's recorded outcomes.
func (s *MemoryStore) AttendanceHistory(_ context.Context, userID string) (ranking.AttendanceHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.history[userID]
	if !ok {
		return ranking.AttendanceHistory{UserID: userID}, nil
	}
	out := ranking.AttendanceHistory{
		UserID:  h.UserID,
		Records: make([]ranking.AttendanceRecord, len(h.Records)),
	}
	copy(out.Records, h.Records)
	return out, nil
}

// UpdatePreferenceLearning folds one interaction into the user's history.
func (s *MemoryStore) UpdatePreferenceLearning(_ context.Context, userID string, event *ranking.CandidateEvent, interaction ranking.Interaction) error {
	record := recordFromInteraction(event, interaction)

	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.history[userID]
	h.UserID = userID
	h.Records = appendCapped(h.Records, record)
	s.history[userID] = h
	return nil
}

// recordFromInteraction converts an interaction into an attendance record.
// The outcome blends the interaction type's baseline signal with the
// caller-supplied strength (a rating mapped to [0,1]).
func recordFromInteraction(event *ranking.CandidateEvent, interaction ranking.Interaction) ranking.AttendanceRecord {
	outcome := interaction.Type.Signal()
	if interaction.Strength > 0 {
		outcome = (outcome + interaction.Strength) / 2
	}
	record := ranking.AttendanceRecord{
		Outcome:    outcome,
		OccurredAt: interaction.Timestamp,
		Criteria:   interaction.Criteria,
	}
	if event != nil {
		record.EventID = event.ID
		record.Category = event.Category
	}
	return record
}

// appendCapped appends the record, dropping the oldest past the cap.
func appendCapped(records []ranking.AttendanceRecord, r ranking.AttendanceRecord) []ranking.AttendanceRecord {
	records = append(records, r)
	if len(records) > maxHistoryRecords {
		records = records[len(records)-maxHistoryRecords:]
	}
	return records
}
