// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Aleksei Vykov

package config

// applyDefaults fills optional settings that were left empty by every
// configuration source. Secrets are deliberately excluded: they have no
// sensible default and their absence must fail validation instead.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Auth.TokenDuration == 0 {
		cfg.Auth.TokenDuration = DefaultTokenDuration
	}

	if cfg.Workers.HashWorkers <= 0 {
		cfg.Workers.HashWorkers = DefaultHashWorkers
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The service fails closed: a missing pepper or token signing key is a fatal
// configuration error, never a condition to limp along with.
func (cfg *StructuredConfig) validate() error {
	if cfg.Auth.Pepper == "" || cfg.Auth.TokenSignKey == "" {
		return ErrMissingSecrets
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
