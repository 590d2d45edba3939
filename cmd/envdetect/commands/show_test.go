package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/envdetect/internal/errors"
	"github.com/thoreinstein/envdetect/pkg/computeenv"
)

// stubPicker replaces the terminal check and the fuzzy finder.
func stubPicker(t *testing.T, tty bool, pick func([]computeenv.Environment) (computeenv.Environment, bool, error)) {
	t.Helper()

	origTTY, origFind := stdinIsTerminal, findEnvironment
	t.Cleanup(func() {
		stdinIsTerminal = origTTY
		findEnvironment = origFind
	})

	stdinIsTerminal = func() bool { return tty }
	findEnvironment = pick
}

func TestShow_JSON(t *testing.T) {
	requireLinux(t)
	isolate(t)
	setVars(t, "AWS_REGION", "AWS_LAMBDA_FUNCTION_NAME")

	out, err := executeCommand(t, "show", "aws-lambda", "-o", "json", "--sysfs-root", writeDMI(t, "", "", ""))
	require.NoError(t, err)

	var v showView
	require.NoError(t, json.Unmarshal([]byte(out), &v))

	assert.Equal(t, "aws-lambda", v.Environment)
	assert.Equal(t, "aws", v.Provider)
	assert.Equal(t, "aws_lambda", v.Platform)
	assert.ElementsMatch(t, []string{"AWS_REGION", "AWS_LAMBDA_FUNCTION_NAME"}, v.Present)

	b := v.Breakdown
	assert.Equal(t, 0, b.HardwareTotal)
	assert.Equal(t, computeenv.HalfCredit, b.HardwareScore)
	assert.Equal(t, 2, b.EnvPresent)
	assert.Equal(t, 20, b.EnvRequired)
	assert.Equal(t, computeenv.Score(2*16384/20), b.EnvScore)
	assert.Equal(t, b.HardwareScore+b.EnvScore, b.Total)
}

func TestShow_Text(t *testing.T) {
	requireLinux(t)
	isolate(t)
	setVars(t, "KUBERNETES_SERVICE_HOST")
	root := writeDMI(t, "Google", "Google Compute Engine", "Google")

	out, err := executeCommand(t, "show", "Kubernetes on Google Cloud", "--sysfs-root", root)
	require.NoError(t, err)

	for _, want := range []string{
		"Kubernetes on Google Cloud (gcp-kubernetes)",
		`product name   contains "google compute engine"`,
		"matched 3 of 3, score 16384",
		"+ KUBERNETES_SERVICE_HOST",
		"- KUBERNETES_PORT",
		"present 1 of 8, score 2048",
		"Total: 18432 of 32768 (56%)",
	} {
		assert.Contains(t, out, want)
	}
}

func TestShow_UniversalPattern(t *testing.T) {
	isolate(t)

	out, err := executeCommand(t, "show", "nomad", "--sysfs-root", writeDMI(t, "", "", ""))
	require.NoError(t, err)
	assert.Contains(t, out, "(any)")
	assert.Contains(t, out, "present 0 of 18, score 0")
}

func TestShow_UnknownEnvironment(t *testing.T) {
	isolate(t)

	_, err := executeCommand(t, "show", "heroku")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownEnvironment))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestShow_Args(t *testing.T) {
	isolate(t)

	_, err := executeCommand(t, "show")
	require.Error(t, err, "an environment is required without --interactive")

	stubPicker(t, true, func([]computeenv.Environment) (computeenv.Environment, bool, error) {
		return computeenv.Qemu, true, nil
	})
	_, err = executeCommand(t, "show", "--interactive", "qemu")
	require.Error(t, err, "--interactive takes no arguments")
}

func TestShow_Interactive(t *testing.T) {
	noFinder := func([]computeenv.Environment) (computeenv.Environment, bool, error) {
		t.Fatal("finder must not run without a terminal")
		return 0, false, nil
	}

	t.Run("numbered prompt", func(t *testing.T) {
		isolate(t)
		stubPicker(t, false, noFinder)
		rootCmd.SetIn(strings.NewReader("20\n"))

		out, err := executeCommand(t, "show", "-i", "--sysfs-root", writeDMI(t, "", "", "QEMU"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "QEMU (qemu)"), "got %q", out)
	})

	t.Run("numbered prompt out of range", func(t *testing.T) {
		isolate(t)
		stubPicker(t, false, noFinder)
		rootCmd.SetIn(strings.NewReader("21\n"))

		_, err := executeCommand(t, "show", "--interactive")
		require.Error(t, err)
		assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	})

	t.Run("numbered prompt cancelled", func(t *testing.T) {
		isolate(t)
		stubPicker(t, false, noFinder)
		rootCmd.SetIn(strings.NewReader(""))

		out, err := executeCommand(t, "show", "--interactive")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("selection", func(t *testing.T) {
		isolate(t)
		var offered []computeenv.Environment
		stubPicker(t, true, func(envs []computeenv.Environment) (computeenv.Environment, bool, error) {
			offered = envs
			return computeenv.Qemu, true, nil
		})

		out, err := executeCommand(t, "show", "-i", "--sysfs-root", writeDMI(t, "", "", "QEMU"))
		require.NoError(t, err)
		assert.Equal(t, computeenv.All(), offered)
		assert.True(t, strings.HasPrefix(out, "QEMU (qemu)"), "got %q", out)
	})

	t.Run("aborted", func(t *testing.T) {
		isolate(t)
		stubPicker(t, true, func([]computeenv.Environment) (computeenv.Environment, bool, error) {
			return 0, false, nil
		})

		out, err := executeCommand(t, "show", "--interactive")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestSignaturePreview(t *testing.T) {
	preview := signaturePreview(computeenv.AzureContainerAppsJob)

	assert.Contains(t, preview, "Azure Container Apps Job")
	assert.Contains(t, preview, "Provider: Azure")
	assert.Contains(t, preview, "BIOS vendor:   -")
	assert.Contains(t, preview, "Variables (11):")
	assert.Contains(t, preview, "CONTAINER_APP_JOB_NAME")
}
