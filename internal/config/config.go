// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

// Package config loads Eventrank configuration with layered precedence:
// built-in defaults, then an optional YAML file, then environment
// variables. CONFIG_PATH overrides the config file search.
package config

import (
	"fmt"
	"time"

	"github.com/lankaconnect/eventrank/internal/breaker"
	"github.com/lankaconnect/eventrank/internal/learning"
	"github.com/lankaconnect/eventrank/internal/logging"
	"github.com/lankaconnect/eventrank/internal/ranking"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig    `json:"server" koanf:"server"`
	Logging  logging.Config  `json:"logging" koanf:"logging"`
	Ranking  ranking.Config  `json:"ranking" koanf:"ranking"`
	Store    StoreConfig     `json:"store" koanf:"store"`
	Learning learning.Config `json:"learning" koanf:"learning"`
	Breakers BreakerConfig   `json:"breakers" koanf:"breakers"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `json:"host" koanf:"host"`

	// Port is the listen port.
	Port int `json:"port" koanf:"port"`

	// Timeout bounds request handling.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `json:"cors_origins" koanf:"cors_origins"`

	// RateLimitReqs is the allowed requests per window per client IP.
	// Zero disables rate limiting.
	RateLimitReqs int `json:"rate_limit_reqs" koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window.
	RateLimitWindow time.Duration `json:"rate_limit_window" koanf:"rate_limit_window"`
}

// StoreConfig selects the preference store backend.
type StoreConfig struct {
	// Backend is "memory" or "badger".
	Backend string `json:"backend" koanf:"backend"`

	// Path is the Badger data directory, used by the badger backend.
	Path string `json:"path" koanf:"path"`
}

// BreakerConfig holds the per-collaborator circuit breaker settings.
type BreakerConfig struct {
	Calendar breaker.Config `json:"calendar" koanf:"calendar"`
	Geo      breaker.Config `json:"geo" koanf:"geo"`
	Prefs    breaker.Config `json:"prefs" koanf:"prefs"`
}

// defaultConfig returns built-in defaults, overridden by file and env.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8470,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging:  logging.DefaultConfig(),
		Ranking:  ranking.DefaultConfig(),
		Store:    StoreConfig{Backend: "memory", Path: "/data/eventrank"},
		Learning: learning.DefaultConfig(),
		Breakers: BreakerConfig{
			Calendar: breaker.DefaultConfig("calendar"),
			Geo:      breaker.DefaultConfig("geo"),
			Prefs:    breaker.DefaultConfig("prefs"),
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0,65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	switch c.Store.Backend {
	case "memory":
	case "badger":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path required for badger backend")
		}
	default:
		return fmt.Errorf("store.backend must be memory or badger, got %q", c.Store.Backend)
	}
	if err := c.Ranking.Validate(); err != nil {
		return fmt.Errorf("ranking: %w", err)
	}
	return nil
}
