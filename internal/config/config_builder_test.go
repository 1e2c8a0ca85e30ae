package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = errors.New("boom")

	cfg, err := b.build()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "boom")
}

// TestBuild_MergePriority verifies that the first source holding a non-zero
// value wins over later sources during the merge.
func TestBuild_MergePriority(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{
			Auth:    Auth{Pepper: "env-pepper", TokenSignKey: "env-key"},
			Storage: Storage{DB: DB{DSN: "postgres://env/db"}},
			Server:  Server{HTTPAddress: "env:8080"},
		},
		&StructuredConfig{
			Auth:    Auth{Pepper: "flag-pepper", TokenDuration: time.Hour},
			Storage: Storage{DB: DB{DSN: "postgres://flag/db"}},
		},
	)

	cfg, err := b.build()

	require.NoError(t, err)
	assert.Equal(t, "env-pepper", cfg.Auth.Pepper)
	assert.Equal(t, "postgres://env/db", cfg.Storage.DB.DSN)
	// the later source still fills fields the earlier one left empty
	assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)
}

// TestBuild_FailsClosedWithoutSecrets verifies that build refuses a merged
// config with no secret material.
func TestBuild_FailsClosedWithoutSecrets(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Storage: Storage{DB: DB{DSN: "postgres://env/db"}},
		Server:  Server{HTTPAddress: "env:8080"},
	})

	_, err := b.build()

	require.ErrorIs(t, err, ErrMissingSecrets)
}

// TestWithJSON_UsesPathFromEarlierSources verifies that the JSON source is
// only consulted when an earlier source provided a file path.
func TestWithJSON_UsesPathFromEarlierSources(t *testing.T) {
	path := writeTempJSONConfig(t, `{"auth": {"pepper": "json-pepper"}}`)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "json-pepper", b.configs[1].Auth.Pepper)
}

// TestWithJSON_NoPathIsNoop verifies that withJSON does nothing when no
// source specified a config file.
func TestWithJSON_NoPathIsNoop(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	require.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

// TestWithJSON_BadFileSetsError verifies that an unreadable JSON file is
// recorded on the builder and surfaces from build.
func TestWithJSON_BadFileSetsError(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/does/not/exist.json"})
	b.withJSON()

	require.Error(t, b.err)
}
