// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Aleksei Vykov

package config

import (
	"time"
)

// Default values applied to optional settings that were left empty by every
// configuration source.
const (
	// DefaultTokenDuration is how long an issued bearer token stays valid
	// when no explicit duration is configured.
	DefaultTokenDuration = 30 * time.Minute

	// DefaultHashWorkers bounds the number of concurrent password
	// derivations when no explicit limit is configured. Each derivation
	// holds 64 MiB, so the bound doubles as a memory cap.
	DefaultHashWorkers = 4
)

// StructuredConfig is the top-level configuration container for the
// go-auth-keeper application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Auth holds the secret material and token parameters of the
	// credential subsystem. Read once at startup, immutable afterwards.
	Auth Auth `envPrefix:"AUTH_"`

	// Storage holds configuration for the user store backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP
	// server.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds configuration for the bounded hashing worker pool.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Auth holds the process-wide secret material and token lifecycle settings.
// Both secrets must be present at startup or the service refuses to start.
type Auth struct {
	// Pepper is the secret string appended to every password before
	// hashing and verification. Unlike a salt it is shared by all
	// passwords and never stored per record. Must be kept confidential.
	// Env: AUTH_PEPPER
	Pepper string `env:"PEPPER"`

	// TokenSignKey is the secret key used to sign and verify bearer
	// tokens with HMAC-SHA256. Must be kept confidential.
	// Env: AUTH_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenDuration specifies how long an issued token remains valid
	// (e.g. "1h", "30m"). Defaults to [DefaultTokenDuration].
	// Env: AUTH_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// ResetCodeTTL bounds the lifetime of a pending password-reset code.
	// Zero means pending codes do not expire.
	// Env: AUTH_RESET_CODE_TTL
	ResetCodeTTL time.Duration `env:"RESET_CODE_TTL"`
}

// Storage groups the configuration for the persistence backend.
type Storage struct {
	// DB holds the database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the user store backend.
type DB struct {
	// DSN is the Data Source Name used to open the database connection.
	// A "postgres://..." DSN selects the PostgreSQL backend; any other
	// non-empty value is treated as a SQLite file path.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for the hashing worker pool.
type Workers struct {
	// HashWorkers is the maximum number of password derivations running
	// concurrently. Defaults to [DefaultHashWorkers].
	// Env: WORKERS_HASH_WORKERS
	HashWorkers int `env:"HASH_WORKERS"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (first non-zero value wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
