package editor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		visual string
		want   []string
	}{
		{"editor wins", "nvim", "code", []string{"nvim"}},
		{"visual fallback", "", "code", []string{"code"}},
		{"arguments split", "code --wait", "", []string{"code", "--wait"}},
		{"blank treated as unset", "   ", "vscode", []string{"vscode"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)

			assert.Equal(t, tt.want, Command())
		})
	}
}

func TestCommand_Fallback(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	got := Command()

	if _, err := exec.LookPath("nano"); err == nil {
		assert.Equal(t, []string{"nano"}, got)
	} else {
		assert.Equal(t, []string{"vi"}, got)
	}
}

// mockEditor writes a script that records its arguments in the returned file.
func mockEditor(t *testing.T) (script, record string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("mock editor is a shell script")
	}

	dir := t.TempDir()
	script = filepath.Join(dir, "mock-editor.sh")
	record = filepath.Join(dir, "args.txt")

	body := "#!/bin/sh\necho \"$@\" > " + record + "\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))
	return script, record
}

func TestOpen(t *testing.T) {
	script, record := mockEditor(t)
	t.Setenv("EDITOR", script+" --wait")

	target := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(target, []byte("version: 1\n"), 0o600))

	var stderr bytes.Buffer
	err := Open(context.Background(), target, Options{Stderr: &stderr})
	require.NoError(t, err)

	got, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, "--wait "+target, strings.TrimSpace(string(got)))
	assert.Contains(t, stderr.String(), "Editing "+target)
}

func TestOpen_MissingEditor(t *testing.T) {
	t.Setenv("EDITOR", "non-existent-binary-12345")
	t.Setenv("VISUAL", "")

	var stderr bytes.Buffer
	err := Open(context.Background(), "config.yaml", Options{Stderr: &stderr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-existent-binary-12345")
}

func TestOpen_Cancelled(t *testing.T) {
	script, _ := mockEditor(t)
	t.Setenv("EDITOR", script)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Open(ctx, filepath.Join(t.TempDir(), "config.yaml"), Options{Stderr: &bytes.Buffer{}})
	assert.Error(t, err)
}
