// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package ranking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine ranks candidate events for a user. It is safe for concurrent use;
// candidates and user context are treated as immutable inputs and all
// per-request state is local to the Rank call.
type Engine struct {
	mu      sync.RWMutex
	config  Config
	logger  zerolog.Logger
	scorers map[Criterion]Scorer
	order   []Criterion
	prefs   PreferenceStore
	geo     Geography
	obs     Observer
}

// NewEngine creates a ranking engine. prefs and geo may be nil; the engine
// then runs with default weights and without distance tie-breaking.
func NewEngine(config Config, logger zerolog.Logger, prefs PreferenceStore, geo Geography, obs Observer) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		config:  config,
		logger:  logger.With().Str("component", "ranking").Logger(),
		scorers: make(map[Criterion]Scorer),
		prefs:   prefs,
		geo:     geo,
		obs:     obs,
	}, nil
}

// RegisterScorer adds a criterion scorer. Registering two scorers for the
// same criterion is an error.
func (e *Engine) RegisterScorer(s Scorer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := s.Criterion()
	if _, exists := e.scorers[c]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateScorer, c)
	}
	e.scorers[c] = s
	e.order = append(e.order, c)
	return nil
}

// Config returns a copy of the current engine configuration.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.Clone()
}

// UpdateConfig replaces the engine configuration after validation.
func (e *Engine) UpdateConfig(config Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = config.Clone()
	return nil
}

// Criteria returns the registered criteria in registration order.
func (e *Engine) Criteria() []Criterion {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Criterion, len(e.order))
	copy(out, e.order)
	return out
}

// Rank scores, normalizes, weights, orders, and conflict-resolves the
// candidate set for the user. Identical inputs produce identical output.
// Every candidate appears exactly once in the result, ranked or excluded.
func (e *Engine) Rank(ctx context.Context, candidates []CandidateEvent, user *UserContext, opts Options) (*Result, error) {
	start := time.Now()

	if user == nil {
		return nil, ErrNilUser
	}
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidates
	}

	e.mu.RLock()
	cfg := e.config.Clone()
	scorers := make(map[Criterion]Scorer, len(e.scorers))
	for c, s := range e.scorers {
		scorers[c] = s
	}
	e.mu.RUnlock()

	if cfg.MaxCandidates > 0 && len(candidates) > cfg.MaxCandidates {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyCandidates, len(candidates), cfg.MaxCandidates)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	requestID := opts.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ref := opts.Now
	if ref.IsZero() {
		ref = time.Now()
	}
	logger := e.logger.With().
		Str("request_id", requestID).
		Str("user_id", user.ID).
		Int("candidates", len(candidates)).
		Logger()

	// Stage 1: edge-case pre-pass.
	flags := e.timedStage("edgecase", func() []edgeFlags {
		return inspectCandidates(ctx, e.geo, candidates)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: weights and history from the preference store. Store
	// failures degrade to defaults instead of failing the request.
	degraded := false
	baseWeights := cfg.Weights
	var history AttendanceHistory
	if e.prefs != nil {
		if w, err := e.prefs.ScoringWeights(ctx, user.ID); err != nil {
			degraded = true
			logger.Warn().Err(err).Msg("preference store unavailable, using default weights")
		} else {
			baseWeights = w
		}
		if h, err := e.prefs.AttendanceHistory(ctx, user.ID); err != nil {
			degraded = true
			logger.Warn().Err(err).Msg("attendance history unavailable, skipping personalization")
		} else {
			history = h
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: scorer fan-out, one goroutine per criterion over all
	// events. Each goroutine owns its result column; no shared writes.
	scoreStart := time.Now()
	scoreCtx, cancel := context.WithTimeout(ctx, cfg.ScoreTimeout)
	defer cancel()

	raw := make(map[Criterion][]CriterionScore, len(scorers))
	criterionDown := make(map[Criterion]bool, len(scorers))
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for c, s := range scorers {
		raw[c] = make([]CriterionScore, len(candidates))
		wg.Add(1)
		go func(c Criterion, s Scorer, column []CriterionScore) {
			defer wg.Done()
			down := scoreColumn(scoreCtx, s, candidates, user, ref, column)
			if down {
				mu.Lock()
				criterionDown[c] = true
				mu.Unlock()
			}
		}(c, s, raw[c])
	}
	wg.Wait()
	e.observeStage("score", time.Since(scoreStart))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	degradedCriteria := make([]Criterion, 0, len(criterionDown))
	for _, c := range Criteria {
		if criterionDown[c] {
			degradedCriteria = append(degradedCriteria, c)
			degraded = true
		}
	}

	// Stage 4: min-max normalization per criterion.
	normalized := make(map[Criterion][]float64, len(raw))
	for c, column := range raw {
		values := make([]float64, len(column))
		for i, cs := range column {
			values[i] = cs.Value
		}
		normalized[c] = normalizeScores(values)
	}

	// Stage 5: personalized weighting and composite scores.
	weights := personalizeWeights(baseWeights, history, cfg.Personalization)
	weightMap := weights.ToMap()

	entries := make([]RankedEvent, len(candidates))
	for i := range candidates {
		scores := make([]CriterionScore, 0, len(Criteria))
		composite := 0.0
		fallback := flags[i].any()
		for _, c := range Criteria {
			column, scored := raw[c]
			if !scored {
				continue
			}
			cs := column[i]
			if cs.Fallback {
				fallback = true
			}
			scores = append(scores, cs)
			composite += weightMap[c] * normalized[c][i]
		}
		entries[i] = RankedEvent{
			Event:           candidates[i],
			Composite:       composite,
			Scores:          scores,
			FallbackApplied: fallback,
		}
		if fallback && flags[i].any() {
			logger.Debug().
				Str("event_id", candidates[i].ID).
				Str("flags", flags[i].summary()).
				Msg("event ranked under fallback assumptions")
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 6: epsilon ties and cascade ordering.
	cascade := cfg.Cascade
	if len(opts.Cascade) > 0 {
		cascade = opts.Cascade
	}
	distances := e.eventDistances(ctx, candidates, user)
	sortEntries(entries, cfg.Epsilon, cascade, distances)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 7: schedule-conflict resolution.
	if !opts.SkipConflictResolution {
		resolveConflicts(entries, cfg.Conflict)
	}

	rank := 0
	excluded := 0
	for i := range entries {
		if entries[i].Excluded {
			excluded++
			continue
		}
		rank++
		entries[i].Rank = rank
	}

	latency := time.Since(start)
	e.observeRanking(latency, len(candidates), excluded, degraded)
	logger.Info().
		Int("ranked", rank).
		Int("excluded", excluded).
		Bool("degraded", degraded).
		Dur("latency", latency).
		Msg("ranking complete")

	return &Result{
		Entries:          entries,
		Weights:          weights,
		Degraded:         degraded,
		DegradedCriteria: degradedCriteria,
		Metadata: ResultMetadata{
			RequestID:      requestID,
			UserID:         user.ID,
			CandidateCount: len(candidates),
			RankedCount:    rank,
			ExcludedCount:  excluded,
			LatencyMS:      latency.Milliseconds(),
			Timestamp:      time.Now().UTC(),
		},
	}, nil
}

// scoreColumn scores every candidate on one criterion. A scorer error means
// the backing collaborator is unavailable: the whole column is filled with
// neutral fallbacks and the criterion is reported degraded. Per-event
// inability is not an error; scorers return neutral values themselves.
func scoreColumn(ctx context.Context, s Scorer, candidates []CandidateEvent, user *UserContext, ref time.Time, column []CriterionScore) bool {
	c := s.Criterion()
	for i := range candidates {
		if ctx.Err() != nil {
			fillNeutral(column, c, "scoring cancelled")
			return true
		}
		cs, err := s.Score(ctx, &candidates[i], user, ref)
		if err != nil {
			fillNeutral(column, c, "collaborator unavailable")
			return true
		}
		cs.Criterion = c
		cs.Value = clamp01(cs.Value)
		column[i] = cs
	}
	return false
}

// fillNeutral overwrites the whole column with neutral fallback scores.
// Partially computed values are discarded so a degraded criterion carries no
// ranking signal at all.
func fillNeutral(column []CriterionScore, c Criterion, rationale string) {
	for i := range column {
		column[i] = CriterionScore{
			Criterion: c,
			Value:     NeutralScore,
			Rationale: rationale,
			Fallback:  true,
		}
	}
}

// eventDistances precomputes home-to-event distances for the tie-break
// cascade. Lookup failures leave the event out of the map, which makes the
// distance step non-discriminating for it.
func (e *Engine) eventDistances(ctx context.Context, candidates []CandidateEvent, user *UserContext) map[string]float64 {
	if e.geo == nil || user.Home == nil {
		return nil
	}
	distances := make(map[string]float64, len(candidates))
	for i := range candidates {
		if candidates[i].Coordinates == nil && len(candidates[i].Venues) == 0 {
			continue
		}
		km, err := e.geo.DistanceKm(ctx, &candidates[i], *user.Home)
		if err != nil {
			continue
		}
		distances[candidates[i].ID] = km
	}
	return distances
}

// timedStage runs fn and reports its latency to the observer.
func (e *Engine) timedStage(name string, fn func() []edgeFlags) []edgeFlags {
	start := time.Now()
	out := fn()
	e.observeStage(name, time.Since(start))
	return out
}

func (e *Engine) observeStage(stage string, latency time.Duration) {
	if e.obs != nil {
		e.obs.ObserveStage(stage, latency)
	}
}

func (e *Engine) observeRanking(latency time.Duration, candidates, excluded int, degraded bool) {
	if e.obs != nil {
		e.obs.ObserveRanking(latency, candidates, excluded, degraded)
	}
}

// clamp01 bounds v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
