package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid. All of them are fatal at
// startup: the service fails closed rather than running without its secret
// material or a usable store.
var (
	// ErrMissingSecrets indicates that the pepper or the token signing key
	// is absent. The credential subsystem cannot operate without both.
	ErrMissingSecrets = errors.New("missing secret material (pepper/token sign key)")

	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")

	// ErrInvalidServerConfigs indicates invalid server settings
	// (for example, a missing HTTP listen address).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
