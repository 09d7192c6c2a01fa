// Package config provides centralized configuration for the marketplace
// service: defaults, an optional YAML file, and PALACE_* environment
// overrides, loaded through viper into typed structs.
package config

import (
	"time"

	"github.com/Paladinnu/paladinspalace/internal/ratelimit"
)

// Config is the complete application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Store      StoreConfig      `mapstructure:"store"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	RateLimits RateLimitsConfig `mapstructure:"rate_limits"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig contains database configuration for libsql/Turso.
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// RedisConfig configures the rate limiter's shared counter store. When Addr
// is empty the limiter runs on its in-process table only.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level: debug, info, warn, error.
	Level string `mapstructure:"level"`
}

// RateLimitsConfig holds the per-action throttling policies. The limiter is
// policy-agnostic; these are the callers' choices.
type RateLimitsConfig struct {
	// ListingCreate throttles listing creation per (user, category).
	ListingCreate ratelimit.Policy `mapstructure:"listing_create"`
	// Upload throttles image uploads per user.
	Upload ratelimit.Policy `mapstructure:"upload"`
	// Login throttles credential attempts per (identifier, origin) pair.
	Login ratelimit.Policy `mapstructure:"login"`
	// ProfileChange throttles profile field edits per user.
	ProfileChange ratelimit.Policy `mapstructure:"profile_change"`
}
