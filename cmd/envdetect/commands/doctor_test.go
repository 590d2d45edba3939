package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/envdetect/internal/doctor"
	"github.com/thoreinstein/envdetect/internal/errors"
)

func TestDoctor_Healthy(t *testing.T) {
	requireLinux(t)
	isolate(t)
	root := writeDMI(t, "Google", "Google Compute Engine", "Google")

	out, err := executeCommand(t, "doctor", "--all", "--sysfs-root", root)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ [evidence] hardware-identity: all hardware identity fields readable")
	assert.Contains(t, out, "ℹ [evidence] environment-variables")
	assert.Contains(t, out, "✓ [config] config: no config file found, using defaults")
	assert.Contains(t, out, "✓ [detection] detection: best guess Google Compute Engine (75% confidence)")
	assert.Contains(t, out, "Summary: 3 passed, 1 info, 0 warnings, 0 errors")
}

func TestDoctor_DefaultHidesPassing(t *testing.T) {
	requireLinux(t)
	isolate(t)
	root := writeDMI(t, "Google", "Google Compute Engine", "Google")

	out, err := executeCommand(t, "doctor", "--sysfs-root", root)
	require.NoError(t, err)
	assert.Equal(t, "Summary: 3 passed, 1 info, 0 warnings, 0 errors\n", out)
}

func TestDoctor_Warnings(t *testing.T) {
	requireLinux(t)
	isolate(t)
	root := writeDMI(t, "", "", "")

	out, err := executeCommand(t, "doctor", "--sysfs-root", root)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.True(t, errors.Is(err, errDoctorWarnings))

	assert.Contains(t, out, "⚠ [evidence] hardware-identity: no hardware identity fields readable")
	assert.Contains(t, out, "hint: Check that "+root)
	assert.Contains(t, out, "⚠ [detection] detection")

	var stderr bytes.Buffer
	PrintError(&stderr, err)
	assert.Empty(t, stderr.String())
}

func TestDoctor_JSON(t *testing.T) {
	requireLinux(t)
	isolate(t)
	setVars(t, "K_SERVICE")
	root := writeDMI(t, "Google", "Google Compute Engine", "Google")

	out, err := executeCommand(t, "doctor", "--json", "--sysfs-root", root)
	require.NoError(t, err)

	var report struct {
		Results []struct {
			Name    string         `json:"name"`
			Status  string         `json:"status"`
			Details map[string]any `json:"details"`
		} `json:"results"`
		Summary doctor.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	require.Len(t, report.Results, 4)

	env := report.Results[1]
	assert.Equal(t, "environment-variables", env.Name)
	assert.Equal(t, "pass", env.Status)
	assert.Equal(t, []any{"K_SERVICE"}, env.Details["variables"])
	assert.Equal(t, 4, report.Summary.Passed)
}

func TestDoctor_Silent(t *testing.T) {
	requireLinux(t)
	isolate(t)

	out, err := executeCommand(t, "doctor", "--silent", "--sysfs-root", writeDMI(t, "", "", ""))
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestDoctor_MutuallyExclusiveFlags(t *testing.T) {
	isolate(t)

	tests := [][]string{
		{"doctor", "--json", "--all"},
		{"doctor", "--json", "--silent"},
		{"doctor", "--silent", "--all"},
	}

	for _, args := range tests {
		_, err := executeCommand(t, args...)
		require.Error(t, err, "%v", args)
		assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	}
}

func TestDoctor_InvalidConfig(t *testing.T) {
	requireLinux(t)
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("version: 1\noutput: xml\n"), 0o600))
	root := writeDMI(t, "Google", "Google Compute Engine", "Google")

	// Other commands refuse to run with a broken config.
	_, err := executeCommand(t, "catalog")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))

	out, err := executeCommand(t, "doctor", "--sysfs-root", root)
	require.Error(t, err)
	assert.Equal(t, errors.ExitSystem, errors.ExitCode(err))
	assert.Contains(t, out, "✗ [config] config: config could not be loaded")
}
