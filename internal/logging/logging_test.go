package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		wantJSON bool
	}{
		{"json", FormatJSON, true},
		{"text", FormatText, false},
		{"unknown falls back to text", Format("logfmt"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Format: tt.format, Output: &buf})

			logger.Info("observed evidence", "hardware_fields", 3, "source", "sysfs")

			var parsed map[string]any
			isJSON := json.Unmarshal(buf.Bytes(), &parsed) == nil
			require.Equal(t, tt.wantJSON, isJSON, buf.String())

			if tt.wantJSON {
				assert.Equal(t, "observed evidence", parsed["msg"])
				assert.Equal(t, "INFO", parsed["level"])
				assert.InDelta(t, 3, parsed["hardware_fields"], 0)
				return
			}
			assert.Contains(t, buf.String(), "INFO  observed evidence hardware_fields=3 source=sysfs")
		})
	}
}

func TestNew_NilOutput(t *testing.T) {
	require.NotNil(t, New(Config{Level: slog.LevelInfo}))
	require.NotNil(t, Default())
}

func TestDefault_WarnsOnly(t *testing.T) {
	logger := Default()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, logger.Enabled(t.Context(), slog.LevelWarn))
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
	logger.Error("discarded", "key", "value")
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		configured slog.Level
		logged     slog.Level
		want       bool
	}{
		{slog.LevelWarn, slog.LevelInfo, false},
		{slog.LevelWarn, slog.LevelError, true},
		{slog.LevelDebug, slog.LevelDebug, true},
		{slog.LevelDebug, LevelTrace, false},
		{LevelTrace, LevelTrace, true},
	}

	for _, tt := range tests {
		for _, format := range []Format{FormatText, FormatJSON} {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.configured, Format: format, Output: &buf})

			logger.Log(t.Context(), tt.logged, "ranked environment")

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("%s: level %v at minimum %v logged = %v, want %v", format, tt.logged, tt.configured, got, tt.want)
			}
		}
	}
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	assert.True(t, logger.Enabled(t.Context(), LevelTrace))

	logger.Log(t.Context(), LevelTrace, "ranked environment", "rank", 1, "environment", "qemu")
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{4, LevelTrace},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
	assert.Less(t, LevelTrace, slog.LevelDebug)
}

func TestNew_JSONRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("variable present", "name", "AWS_SECRET_ACCESS_KEY", "aws_secret_access_key", "wJalrXUtnFEMI/K7MDENG")

	assert.NotContains(t, buf.String(), "wJalrXUtnFEMI")
	assert.Contains(t, buf.String(), `"name":"AWS_SECRET_ACCESS_KEY"`, "variable names are logged unchanged")
}

func TestContext(t *testing.T) {
	logger := New(Config{Level: slog.LevelInfo, Output: &bytes.Buffer{}})

	ctx := NewContext(t.Context(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(t.Context()))

	//nolint:staticcheck // nil context is accepted
	assert.Same(t, slog.Default(), FromContext(nil))
}
