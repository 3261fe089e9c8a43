package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	charm "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name     string
		ctx      context.Context
		expected *slog.Logger
	}{
		{name: "nil context", ctx: nil, expected: defaultLogger},
		{name: "no logger stored", ctx: context.Background(), expected: defaultLogger},
		{name: "stored logger", ctx: WithContext(context.Background(), custom), expected: custom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromContext(tt.ctx)) //nolint:staticcheck // nil guard is the point
		})
	}
}

func TestWithRequestID_EnrichesLogOutput(t *testing.T) {
	var buf bytes.Buffer

	ctx := WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx = WithRequestID(ctx, "req-123")
	ctx = WithCorrelationID(ctx, "corr-456")

	FromContext(ctx).InfoContext(ctx, "test message")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "corr-456", entry["correlation_id"])
}

func TestNewWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&Config{
		Level:   "info",
		Format:  "json",
		Service: "test-service",
		Version: "1.0.0",
	}, &buf)
	require.NotNil(t, logger)

	logger.Info("test message", slog.String("key", "value"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "test-service", entry["service_name"])
	assert.Equal(t, "1.0.0", entry["service_version"])
}

func TestNewWithWriter_PrettyFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&Config{
		Level:   "info",
		Format:  "pretty",
		Service: "test-service",
		Version: "1.0.0",
	}, &buf)

	logger.Info("pretty message")

	assert.Contains(t, buf.String(), "pretty message")
}

func TestNewWithWriter_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&Config{
		Level:  "info",
		Format: "json",
	}, &buf)

	logger.Info("outbound call", slog.String("header", "Bearer secret-token-value"))

	assert.NotContains(t, buf.String(), "secret-token-value")
}

func TestNewWithWriter_WithFileConfig(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	var buf bytes.Buffer

	logger := NewWithWriter(&Config{
		Level:   "info",
		Format:  "json",
		Service: "test-service",
		Version: "1.0.0",
		File: FileConfig{
			Enabled:    true,
			Path:       logFile,
			MaxSizeMB:  1,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}, &buf)

	logger.Info("test message to file")

	assert.Contains(t, buf.String(), "test message to file")

	require.FileExists(t, logFile)

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "test message to file")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{input: "trace", expected: LevelTrace},
		{input: "debug", expected: slog.LevelDebug},
		{input: "info", expected: slog.LevelInfo},
		{input: "warn", expected: slog.LevelWarn},
		{input: "warning", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "DEBUG", expected: slog.LevelDebug},
		{input: "", expected: slog.LevelInfo},
		{input: "unknown", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseLevel(tt.input), "input %q", tt.input)
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	tests := []struct {
		input    slog.Level
		expected charm.Level
	}{
		{input: LevelTrace, expected: charm.DebugLevel},
		{input: slog.LevelDebug, expected: charm.DebugLevel},
		{input: slog.LevelInfo, expected: charm.InfoLevel},
		{input: slog.LevelWarn, expected: charm.WarnLevel},
		{input: slog.LevelError, expected: charm.ErrorLevel},
		{input: slog.Level(12), expected: charm.ErrorLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, slogToCharmLevel(tt.input), "input %v", tt.input)
	}
}

func TestMultiHandler_WritesToAll(t *testing.T) {
	var first, second bytes.Buffer

	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&first, nil),
		slog.NewTextHandler(&second, nil),
	))

	logger.Info("fan out")

	assert.Contains(t, first.String(), "fan out")
	assert.Contains(t, second.String(), "fan out")
}

func TestMultiHandler_RespectsLevels(t *testing.T) {
	var debugOut, infoOut bytes.Buffer

	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(&debugOut, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&infoOut, &slog.HandlerOptions{Level: slog.LevelInfo}),
	))

	logger.Debug("debug only")

	assert.Contains(t, debugOut.String(), "debug only")
	assert.Empty(t, infoOut.String())
}
