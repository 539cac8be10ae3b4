package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"disorder.dev/shandler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/traego/notion-mcp/pkg/utils"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   shandler.LevelTrace,
		"DEBUG":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"fatal":   shandler.LevelFatal,
	}
	for name, expected := range tests {
		level, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, level, name)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestSlogTrace(t *testing.T) {
	t.Run("With Trace log level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		handler, err := NewHandler(buffer, shandler.LevelTrace, FormatJSON)
		require.NoError(t, err)
		logger := NewSlog(handler)

		logger.Trace("test trace", "key", "value")

		entry := decode(t, buffer)
		assert.Equal(t, "test trace", entry["msg"])
		assert.Equal(t, "TRACE", entry["level"])
		assert.Equal(t, "value", entry["key"])
		assert.Equal(t, shandler.LevelTrace, logger.Level())
	})

	t.Run("With Debug log level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		handler, err := NewHandler(buffer, slog.LevelDebug, FormatJSON)
		require.NoError(t, err)
		logger := NewSlog(handler)

		logger.Trace("test trace")

		assert.Empty(t, buffer.String())
		assert.Equal(t, slog.LevelDebug, logger.Level())
	})
}

func TestContextIds(t *testing.T) {
	buffer := new(bytes.Buffer)
	handler, err := NewHandler(buffer, slog.LevelInfo, FormatJSON)
	require.NoError(t, err)
	logger := slog.New(handler).With("component", "test")

	ctx := utils.SetTraceId(context.Background(), "trace-1")
	ctx = utils.SetRequestId(ctx, `"req-7"`)
	logger.InfoContext(ctx, "handled")

	entry := decode(t, buffer)
	assert.Equal(t, "trace-1", entry["trace_id"])
	assert.Equal(t, `"req-7"`, entry["request_id"])
	assert.Equal(t, "test", entry["component"])
}

func TestTextFormat(t *testing.T) {
	buffer := new(bytes.Buffer)
	handler, err := NewHandler(buffer, slog.LevelInfo, FormatText)
	require.NoError(t, err)

	slog.New(handler).Info("hello", "tool", "search_notion")

	line := buffer.String()
	assert.True(t, strings.Contains(line, "level=INFO"), line)
	assert.True(t, strings.Contains(line, "tool=search_notion"), line)
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewHandler(new(bytes.Buffer), slog.LevelInfo, "xml")
	assert.Error(t, err)
}

func TestSetup(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	buffer := new(bytes.Buffer)
	l, err := Setup(buffer, "warn", FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l.Level())

	slog.Info("dropped")
	slog.Warn("kept")

	entry := decode(t, buffer)
	assert.Equal(t, "kept", entry["msg"])
}

func TestSetup_BadLevel(t *testing.T) {
	_, err := Setup(new(bytes.Buffer), "verbose", FormatText)
	assert.Error(t, err)
}

func TestPackageTrace(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	buffer := new(bytes.Buffer)
	_, err := Setup(buffer, "trace", FormatJSON)
	require.NoError(t, err)

	Trace(utils.SetTraceId(context.Background(), "t-9"), "raw line", "bytes", 12)

	entry := decode(t, buffer)
	assert.Equal(t, "TRACE", entry["level"])
	assert.Equal(t, "t-9", entry["trace_id"])
	assert.Equal(t, float64(12), entry["bytes"])
}
