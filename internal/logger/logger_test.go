package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lastEntry redirects l to a buffer, runs emit and decodes the single JSON
// entry that was written.
func lastEntry(t *testing.T, l *Logger, emit func(l *Logger)) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	l.Logger = l.Output(&buf)
	emit(l)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger(t *testing.T) {
	l := NewLogger("auth-keeper-server")
	require.NotNil(t, l)

	entry := lastEntry(t, l, func(l *Logger) {
		l.Info().Str("username", "ivan@example.com").Msg("user registered")
	})

	assert.Equal(t, "auth-keeper-server", entry["role"])
	assert.Equal(t, "ivan@example.com", entry["username"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_ConfiguresZerologGlobals(t *testing.T) {
	NewLogger("auth-keeper-server")

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Equal(t, "func", zerolog.CallerFieldName)
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	require.NotNil(t, l)
	l.Logger = l.Output(&buf)

	l.Error().Msg("token verification failed")

	assert.Empty(t, buf.String())
}

func TestGetChildLogger_InheritsFields(t *testing.T) {
	parent := NewLogger("auth-keeper-server")
	child := parent.GetChildLogger()
	require.NotNil(t, child)
	assert.NotSame(t, parent, child)

	entry := lastEntry(t, child, func(l *Logger) {
		l.Info().Msg("login attempt")
	})
	assert.Equal(t, "auth-keeper-server", entry["role"])
}

func TestFromContext(t *testing.T) {
	// without an attached logger the zerolog global is returned, never nil
	require.NotNil(t, FromContext(context.Background()))

	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("trace_id", "trace-1").Logger()
	ctx := zl.WithContext(context.Background())

	FromContext(ctx).Info().Msg("reset code issued")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "trace-1", entry["trace_id"])
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/resetpw/ivan@example.com", nil)
	require.NotNil(t, FromRequest(req))

	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("trace_id", "trace-2").Logger()
	req = req.WithContext(zl.WithContext(req.Context()))

	FromRequest(req).Info().Msg("reset requested")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "trace-2", entry["trace_id"])
}
