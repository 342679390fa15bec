// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

// Package learning wires interaction events into preference learning. The
// API publishes interactions to an in-process Watermill topic; a supervised
// consumer applies them to the preference store out of band, rate-limited
// so learning writes never contend with ranking reads. The ranking engine
// itself neither publishes nor consumes.
package learning

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/lankaconnect/eventrank/internal/ranking"
)

// TopicInteractions is the in-process topic carrying interaction events.
const TopicInteractions = "interactions"

// Config tunes the learning pipeline.
type Config struct {
	// BufferSize is the in-process channel depth per subscriber.
	BufferSize int64 `json:"buffer_size" koanf:"buffer_size"`

	// WritesPerSecond throttles preference store writes.
	WritesPerSecond float64 `json:"writes_per_second" koanf:"writes_per_second"`

	// WriteBurst is the limiter burst size.
	WriteBurst int `json:"write_burst" koanf:"write_burst"`
}

// DefaultConfig returns learning pipeline defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize:      256,
		WritesPerSecond: 50,
		WriteBurst:      10,
	}
}

// InteractionEvent is the wire payload published per interaction.
type InteractionEvent struct {
	// UserID identifies the interacting user.
	UserID string `json:"user_id"`

	// Event is the event interacted with. The ID is required; the rest
	// enriches the attendance record when present.
	Event ranking.CandidateEvent `json:"event"`

	// Interaction describes the reaction.
	Interaction ranking.Interaction `json:"interaction"`
}

// PubSub is the in-process transport shared by publisher and consumer.
type PubSub struct {
	channel *gochannel.GoChannel
}

// NewPubSub creates the in-process transport.
func NewPubSub(cfg Config, logger zerolog.Logger) *PubSub {
	return &PubSub{
		channel: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: cfg.BufferSize},
			newLoggerAdapter(logger),
		),
	}
}

// Close shuts down the transport and unblocks subscribers.
func (p *PubSub) Close() error {
	return p.channel.Close()
}

// Publish serializes and publishes one interaction event. Fire and forget
// from the caller's perspective; delivery failures surface here only.
func (p *PubSub) Publish(ev InteractionEvent) error {
	if ev.UserID == "" {
		return fmt.Errorf("interaction event missing user id")
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	if err := p.channel.Publish(TopicInteractions, msg); err != nil {
		return fmt.Errorf("publish interaction: %w", err)
	}
	return nil
}

// Consumer applies interaction events to the preference store. Implements
// suture's service contract via Serve.
type Consumer struct {
	pubsub  *PubSub
	store   ranking.PreferenceStore
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewConsumer creates a learning consumer.
func NewConsumer(pubsub *PubSub, store ranking.PreferenceStore, cfg Config, logger zerolog.Logger) *Consumer {
	return &Consumer{
		pubsub:  pubsub,
		store:   store,
		limiter: rate.NewLimiter(rate.Limit(cfg.WritesPerSecond), cfg.WriteBurst),
		logger:  logger.With().Str("component", "learning").Logger(),
	}
}

// Serve consumes interaction events until the context is cancelled.
func (c *Consumer) Serve(ctx context.Context) error {
	messages, err := c.pubsub.channel.Subscribe(ctx, TopicInteractions)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicInteractions, err)
	}
	c.logger.Info().Str("topic", TopicInteractions).Msg("learning consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.handle(ctx, msg)
		}
	}
}

// handle applies one message. Malformed payloads are acked and dropped;
// store failures are logged and acked rather than redelivered, since
// learning is best-effort.
func (c *Consumer) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var ev InteractionEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		c.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping malformed interaction")
		return
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return
	}
	if err := c.store.UpdatePreferenceLearning(ctx, ev.UserID, &ev.Event, ev.Interaction); err != nil {
		c.logger.Error().Err(err).
			Str("user_id", ev.UserID).
			Str("event_id", ev.Event.ID).
			Msg("preference learning update failed")
		return
	}
	c.logger.Debug().
		Str("user_id", ev.UserID).
		Str("event_id", ev.Event.ID).
		Str("type", ev.Interaction.Type.String()).
		Msg("interaction applied")
}

// loggerAdapter bridges Watermill logging into zerolog.
type loggerAdapter struct {
	logger zerolog.Logger
}

var _ watermill.LoggerAdapter = (*loggerAdapter)(nil)

func newLoggerAdapter(logger zerolog.Logger) *loggerAdapter {
	return &loggerAdapter{logger: logger.With().Str("component", "watermill").Logger()}
}

func (a *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.event(a.logger.Error().Err(err), msg, fields)
}

func (a *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.event(a.logger.Info(), msg, fields)
}

func (a *loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.event(a.logger.Debug(), msg, fields)
}

func (a *loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.event(a.logger.Trace(), msg, fields)
}

func (a *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := a.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &loggerAdapter{logger: ctx.Logger()}
}

func (a *loggerAdapter) event(ev *zerolog.Event, msg string, fields watermill.LogFields) {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
