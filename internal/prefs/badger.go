// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package prefs

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"github.com/lankaconnect/eventrank/internal/ranking"
)

// BadgerStore persists weight profiles and attendance history in BadgerDB.
// Safe for concurrent use; Badger handles transaction isolation.
type BadgerStore struct {
	db       *badger.DB
	prefix   string
	defaults ranking.Weights
}

var _ ranking.PreferenceStore = (*BadgerStore)(nil)

// NewBadgerStore creates a store over an open Badger database. prefix
// namespaces keys so the database can be shared.
func NewBadgerStore(db *badger.DB, prefix string, defaults ranking.Weights) *BadgerStore {
	return &BadgerStore{db: db, prefix: prefix, defaults: defaults}
}

// OpenBadger opens a Badger database at dir with logging disabled; Badger's
// own logger bypasses the structured log pipeline.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return db, nil
}

// ScoringWeights returns the user's weight vector, or the defaults.
func (s *BadgerStore) ScoringWeights(_ context.Context, userID string) (ranking.Weights, error) {
	var w ranking.Weights
	found, err := s.get(s.weightsKey(userID), &w)
	if err != nil {
		return ranking.Weights{}, fmt.Errorf("read weights: %w", err)
	}
	if !found {
		return s.defaults, nil
	}
	return w, nil
}

// SetScoringWeights stores a weight vector for the user.
func (s *BadgerStore) SetScoringWeights(_ context.Context, userID string, w ranking.Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if err := s.put(s.weightsKey(userID), w); err != nil {
		return fmt.Errorf("write weights: %w", err)
	}
	return nil
}

// AttendanceHistory returns the user's recorded outcomes.
func (s *BadgerStore) AttendanceHistory(_ context.Context, userID string) (ranking.AttendanceHistory, error) {
	h := ranking.AttendanceHistory{UserID: userID}
	found, err := s.get(s.historyKey(userID), &h)
	if err != nil {
		return ranking.AttendanceHistory{}, fmt.Errorf("read history: %w", err)
	}
	if !found {
		return ranking.AttendanceHistory{UserID: userID}, nil
	}
	return h, nil
}

// UpdatePreferenceLearning folds one interaction into the user's history
// inside a single read-modify-write transaction.
func (s *BadgerStore) UpdatePreferenceLearning(_ context.Context, userID string, event *ranking.CandidateEvent, interaction ranking.Interaction) error {
	record := recordFromInteraction(event, interaction)
	key := s.historyKey(userID)

	err := s.db.Update(func(txn *badger.Txn) error {
		h := ranking.AttendanceHistory{UserID: userID}
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &h)
			}); err != nil {
				return err
			}
		}
		h.UserID = userID
		h.Records = appendCapped(h.Records, record)
		data, err := json.Marshal(h)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("update history: %w", err)
	}
	return nil
}

func (s *BadgerStore) weightsKey(userID string) []byte {
	return []byte(s.prefix + "weights/" + userID)
}

func (s *BadgerStore) historyKey(userID string) []byte {
	return []byte(s.prefix + "history/" + userID)
}

// get reads and unmarshals one key, reporting whether it existed.
func (s *BadgerStore) get(key []byte, out any) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// put marshals and writes one key.
func (s *BadgerStore) put(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}
