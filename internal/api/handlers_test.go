// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/lankaconnect/eventrank/internal/calendar"
	"github.com/lankaconnect/eventrank/internal/geo"
	"github.com/lankaconnect/eventrank/internal/learning"
	"github.com/lankaconnect/eventrank/internal/prefs"
	"github.com/lankaconnect/eventrank/internal/ranking"
	"github.com/lankaconnect/eventrank/internal/ranking/scorers"
)

// newTestServer builds a full stack: engine with all seven scorers over the
// static calendar and geo collaborators, memory store, learning pipeline,
// and the chi router.
func newTestServer(t *testing.T) (http.Handler, *prefs.MemoryStore, *learning.PubSub) {
	t.Helper()

	store := prefs.NewMemoryStore(ranking.DefaultWeights())
	cal := calendar.NewStaticEngine(nil)
	geoSvc := geo.NewService(nil)

	engine, err := ranking.NewEngine(ranking.DefaultConfig(), zerolog.Nop(), store, geoSvc, nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	for _, s := range []ranking.Scorer{
		scorers.NewCulturalScorer(cal),
		scorers.NewGeographicScorer(geoSvc),
		scorers.NewTimeSlotScorer(),
		scorers.NewFamilyScorer(),
		scorers.NewAgeScorer(),
		scorers.NewLanguageScorer(),
		scorers.NewInvolvementScorer(),
	} {
		if err := engine.RegisterScorer(s); err != nil {
			t.Fatalf("RegisterScorer() error = %v", err)
		}
	}

	pubsub := learning.NewPubSub(learning.DefaultConfig(), zerolog.Nop())
	t.Cleanup(func() { pubsub.Close() }) //nolint:errcheck

	handler := NewHandler(engine, pubsub, zerolog.Nop(), "test")
	router := NewRouter(handler, RouterConfig{Timeout: 10 * time.Second})
	return router, store, pubsub
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return rec, resp
}

func rankPayload(n int) map[string]any {
	base := time.Date(2026, 9, 14, 18, 0, 0, 0, time.UTC)
	candidates := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		candidates = append(candidates, map[string]any{
			"id":         fmt.Sprintf("ev-%d", i),
			"title":      fmt.Sprintf("Event %d", i),
			"category":   "music",
			"start_time": base.Add(time.Duration(i*3) * time.Hour).Format(time.RFC3339),
			"end_time":   base.Add(time.Duration(i*3+2) * time.Hour).Format(time.RFC3339),
		})
	}
	return map[string]any{
		"user":       map[string]any{"id": "user-1"},
		"candidates": candidates,
	}
}

func TestRankEndpoint(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestServer(t)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/rankings", rankPayload(3))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if !resp.Success {
		t.Fatalf("Success = false: %+v", resp.Error)
	}
	if resp.Meta == nil || resp.Meta.RequestID == "" {
		t.Error("meta request_id missing")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}

	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	var result ranking.Result
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(result.Entries))
	}
	for _, e := range result.Entries {
		if len(e.Scores) != len(ranking.Criteria) {
			t.Errorf("event %s has %d scores, want %d", e.Event.ID, len(e.Scores), len(ranking.Criteria))
		}
	}
}

func TestRankEndpointValidation(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestServer(t)

	tests := []struct {
		name       string
		payload    any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing user id",
			payload:    map[string]any{"user": map[string]any{}, "candidates": rankPayload(1)["candidates"]},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name:       "empty candidates",
			payload:    map[string]any{"user": map[string]any{"id": "u"}, "candidates": []any{}},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name: "candidate without start time",
			payload: map[string]any{
				"user":       map[string]any{"id": "u"},
				"candidates": []map[string]any{{"id": "ev-1"}},
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name: "unknown cascade step",
			payload: func() map[string]any {
				p := rankPayload(1)
				p["cascade"] = []string{"alphabetical"}
				return p
			}(),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeValidationFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/rankings", tt.payload)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if resp.Success {
				t.Error("Success = true for invalid request")
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/rankings", bytes.NewBufferString("{nope"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestRankEndpointTooManyCandidates(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestServer(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/rankings", rankPayload(501))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestInteractEndpoint(t *testing.T) {
	t.Parallel()

	router, store, _ := newTestServer(t)

	payload := map[string]any{
		"user_id": "user-1",
		"event":   map[string]any{"id": "ev-1", "category": "music"},
		"type":    "attend",
		"rating":  4.0,
	}
	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/interactions", payload)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (body %s)", rec.Code, rec.Body.String())
	}
	if !resp.Success {
		t.Fatalf("Success = false: %+v", resp.Error)
	}

	// Accepted means queued; nothing has been learned yet without a
	// running consumer.
	h, err := store.AttendanceHistory(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("AttendanceHistory() error = %v", err)
	}
	if len(h.Records) != 0 {
		t.Errorf("history has %d records before the consumer ran", len(h.Records))
	}
}

func TestInteractEndpointValidation(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestServer(t)

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"missing user id", map[string]any{"event": map[string]any{"id": "ev"}, "type": "view"}},
		{"missing event id", map[string]any{"user_id": "u", "event": map[string]any{}, "type": "view"}},
		{"unknown type", map[string]any{"user_id": "u", "event": map[string]any{"id": "ev"}, "type": "teleport"}},
		{"rating out of range", map[string]any{"user_id": "u", "event": map[string]any{"id": "ev"}, "type": "rate", "rating": 9.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/interactions", tt.payload)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestConfigEndpoints(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestServer(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/rankings/config", nil)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("GET config: status %d, success %v", rec.Code, resp.Success)
	}

	update := map[string]any{"config": func() ranking.Config {
		cfg := ranking.DefaultConfig()
		cfg.Epsilon = 0.01
		return cfg
	}()}
	rec, resp = doJSON(t, router, http.MethodPut, "/api/v1/rankings/config", update)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("PUT config: status %d (body %s)", rec.Code, rec.Body.String())
	}

	rec, resp = doJSON(t, router, http.MethodGet, "/api/v1/rankings/config", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET config after update: status %d", rec.Code)
	}
	data, _ := json.Marshal(resp.Data)
	var cfg ranking.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Epsilon != 0.01 {
		t.Errorf("Epsilon = %f, want the updated 0.01", cfg.Epsilon)
	}

	t.Run("invalid config rejected", func(t *testing.T) {
		t.Parallel()
		bad := map[string]any{"config": map[string]any{"epsilon": 2}}
		rec, _ := doJSON(t, router, http.MethodPut, "/api/v1/rankings/config", bad)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})
}

func TestStatusAndHealthEndpoints(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestServer(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/rankings/status", nil)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status endpoint: %d", rec.Code)
	}
	data, _ := json.Marshal(resp.Data)
	var status statusResponse
	if err := json.Unmarshal(data, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Version != "test" {
		t.Errorf("Version = %q, want test", status.Version)
	}
	if len(status.Criteria) != len(ranking.Criteria) {
		t.Errorf("got %d criteria, want %d", len(status.Criteria), len(ranking.Criteria))
	}

	rec, resp = doJSON(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Errorf("healthz: status %d, success %v", rec.Code, resp.Success)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "caller-supplied-id" {
		t.Errorf("X-Request-ID = %q, want the caller's id echoed", got)
	}
}
