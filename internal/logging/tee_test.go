package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTee(t *testing.T) {
	var warn, debug bytes.Buffer
	h := Tee(
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
		nil,
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	logger := slog.New(h).With("component", "rank")

	logger.Debug("scored", "environment", "aws-ec2")
	logger.Warn("no hardware identity")

	assert.NotContains(t, warn.String(), "scored")
	assert.Contains(t, warn.String(), "no hardware identity")
	assert.Contains(t, warn.String(), "component=rank")

	assert.Contains(t, debug.String(), "scored")
	assert.Contains(t, debug.String(), "no hardware identity")
	assert.Contains(t, debug.String(), "component=rank")
}

func TestTee_Enabled(t *testing.T) {
	h := Tee(
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	ctx := context.Background()

	assert.False(t, h.Enabled(ctx, slog.LevelDebug))
	assert.True(t, h.Enabled(ctx, slog.LevelInfo))
}

func TestTee_Collapses(t *testing.T) {
	single := slog.NewTextHandler(&bytes.Buffer{}, nil)

	assert.Same(t, single, Tee(nil, single))
	assert.False(t, Tee().Enabled(context.Background(), slog.LevelError))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envdetect.log")

	h, closer, err := OpenFile(path, FileLevel)
	require.NoError(t, err)

	slog.New(h).Debug("observed evidence", "api_key", "hunter2", "vars", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "observed evidence", entry["msg"])
	assert.NotEqual(t, "hunter2", entry["api_key"])
	assert.InDelta(t, 3, entry["vars"], 0)
}

func TestOpenFile_MissingDir(t *testing.T) {
	_, _, err := OpenFile(filepath.Join(t.TempDir(), "missing", "envdetect.log"), FileLevel)
	assert.Error(t, err)
}
