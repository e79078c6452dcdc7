package logx

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmitsJSONWithServiceField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Service: "fooddesk", Level: "info"})

	logger.Info("order placed", "order_id", 7)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "fooddesk", record["service"])
	assert.Equal(t, "order placed", record["msg"])
	assert.Equal(t, float64(7), record["order_id"])
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Service: "fooddesk", Level: "warn"})

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
		{"  error  ", slog.LevelError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "input %q", tt.in)
	}
}
