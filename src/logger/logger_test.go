// src/logger/logger_test.go
package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerSetsGlobal(t *testing.T) {
	InitLogger("error")

	require.NotNil(t, L)
	assert.False(t, L.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, L.Enabled(context.Background(), slog.LevelError))
}

func TestInitLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	InitLogger("chatty")

	require.NotNil(t, L)
	assert.True(t, L.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, L.Enabled(context.Background(), slog.LevelDebug))
}

func TestContextRoundTrip(t *testing.T) {
	InitLogger("error")
	embedded := L.With(slog.String("requestID", "abc-123"))

	ctx := ToContext(context.Background(), embedded)

	assert.Same(t, embedded, FromContext(ctx))
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	InitLogger("error")

	assert.Same(t, L, FromContext(context.Background()))
}
