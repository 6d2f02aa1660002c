package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skucheck/internal/config"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestInitializeLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		ResetLoggerForTesting()
		slog.SetDefault(prev)
	})

	path := filepath.Join(t.TempDir(), "logs", "skucheck.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	// subsequent calls keep the first logger
	again, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)
	assert.Same(t, logger, again)

	logger.Info("written to file", slog.String("k", "v"))
	require.NoError(t, CloseLogFile())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written to file"`)
}

func TestGetLogger_Uninitialized(t *testing.T) {
	ResetLoggerForTesting()
	assert.Equal(t, slog.Default(), GetLogger())
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info"}, &buf)

	ctx := WithRunID(WithTraceID(context.Background(), "trace-1"), "run-1")
	logger.InfoContext(ctx, "with ids")
	logger.Info("without ids")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "trace-1", lines[0]["trace_id"])
	assert.Equal(t, "run-1", lines[0]["run_id"])
	assert.NotContains(t, lines[1], "trace_id")

	// ids survive With and WithGroup
	buf.Reset()
	logger.With("component", "test").WithGroup("g").InfoContext(ctx, "nested")
	lines = decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "test", lines[0]["component"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.level))
		})
	}

	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "warn"}, &buf)
	logger.Info("dropped")
	logger.Warn("kept")
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["msg"])
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetRunID(ctx))

	ctx = EnsureTraceID(ctx)
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)
	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)))

	ctx = WithRunID(ctx, "run-7")
	assert.Equal(t, "run-7", GetRunID(ctx))
	assert.NotNil(t, LoggerFromContext(ctx))
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info"}, &buf)

	WithError(WithComponent(logger, "validation"), errors.New("bad input")).Info("failed")
	assert.Same(t, logger, WithError(logger, nil))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "validation", lines[0]["component"])
	assert.Equal(t, "bad input", lines[0]["error"])
}
