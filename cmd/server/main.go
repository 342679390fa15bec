// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

// Package main is the entry point for the Eventrank server.
//
// Eventrank ranks candidate events for diaspora community members using a
// staged pipeline: edge-case handling, seven-criterion scoring, min-max
// normalization, personalized weighting, tie-breaking, and schedule
// conflict resolution. Interaction feedback flows through an in-process
// learning pipeline into the preference store.
//
// Startup order:
//
//  1. Configuration via Koanf v2 (defaults, optional YAML, EVENTRANK_* env)
//  2. Logging via zerolog
//  3. Preference store (memory or BadgerDB per store.backend)
//  4. Collaborators behind circuit breakers (calendar, geography, prefs)
//  5. Ranking engine with the seven criterion scorers
//  6. Learning pipeline (Watermill in-process pub/sub + rate-limited consumer)
//  7. HTTP API under a suture supervision tree
//
// The server shuts down gracefully on SIGINT and SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/lankaconnect/eventrank/internal/api"
	"github.com/lankaconnect/eventrank/internal/calendar"
	"github.com/lankaconnect/eventrank/internal/config"
	"github.com/lankaconnect/eventrank/internal/geo"
	"github.com/lankaconnect/eventrank/internal/learning"
	"github.com/lankaconnect/eventrank/internal/logging"
	"github.com/lankaconnect/eventrank/internal/metrics"
	"github.com/lankaconnect/eventrank/internal/prefs"
	"github.com/lankaconnect/eventrank/internal/ranking"
	"github.com/lankaconnect/eventrank/internal/ranking/scorers"
	"github.com/lankaconnect/eventrank/internal/supervisor"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Init(cfg.Logging)
	logger := logging.Logger()
	logger.Info().Str("version", version).Msg("eventrank starting")

	// Preference store.
	var store ranking.PreferenceStore
	var closeStore func() error
	switch cfg.Store.Backend {
	case "badger":
		db, err := prefs.OpenBadger(cfg.Store.Path)
		if err != nil {
			return err
		}
		closeStore = db.Close
		store = prefs.NewBadgerStore(db, "eventrank/", cfg.Ranking.Weights)
		logger.Info().Str("path", cfg.Store.Path).Msg("badger preference store opened")
	default:
		store = prefs.NewMemoryStore(cfg.Ranking.Weights)
		closeStore = func() error { return nil }
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error().Err(err).Msg("preference store close failed")
		}
	}()

	// Collaborators behind circuit breakers.
	cal := calendar.NewResilient(calendar.NewStaticEngine(nil), cfg.Breakers.Calendar, metrics.RecordBreakerState)
	geoSvc := geo.NewResilient(geo.NewService(nil), cfg.Breakers.Geo, metrics.RecordBreakerState)
	prefStore := prefs.NewResilient(store, cfg.Breakers.Prefs, metrics.RecordBreakerState)

	// Ranking engine with the seven criterion scorers.
	engine, err := ranking.NewEngine(cfg.Ranking, logger, prefStore, geoSvc, metrics.RankingObserver{})
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
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
			return fmt.Errorf("register scorer: %w", err)
		}
	}

	// Learning pipeline. The consumer writes to the raw store, not the
	// breaker-wrapped one; learning backpressure is handled by its rate
	// limiter, not by failing fast.
	pubsub := learning.NewPubSub(cfg.Learning, logger)
	defer func() {
		if err := pubsub.Close(); err != nil {
			logger.Error().Err(err).Msg("pubsub close failed")
		}
	}()
	consumer := learning.NewConsumer(pubsub, store, cfg.Learning, logger)

	// HTTP API.
	handler := api.NewHandler(engine, pubsub, logger, version)
	router := api.NewRouter(handler, api.RouterConfig{
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
		Timeout:         cfg.Server.Timeout,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	// Supervision tree.
	tree := supervisor.NewTree(slog.New(logging.NewSlogHandler()), supervisor.DefaultTreeConfig())
	tree.AddAPIService(supervisor.NewHTTPService(server, supervisor.DefaultTreeConfig().ShutdownTimeout))
	tree.AddLearningService(consumer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", server.Addr).Msg("serving")
	if err := tree.Root().Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}
	logger.Info().Msg("shutdown complete")
	return nil
}
