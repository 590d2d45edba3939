package commands

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/envdetect/internal/config"
	"github.com/thoreinstein/envdetect/internal/smbios"
	"github.com/thoreinstein/envdetect/pkg/computeenv"
)

// resetFlags restores every flag of c and its subcommands to its default.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// isolate gives the test an empty working directory and config directory,
// and unsets every variable the catalog looks at.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv(config.EnvPrefix+"_CONFIG_DIR", dir)
	t.Chdir(dir)

	unset := append(computeenv.EnvVarNames(),
		config.EnvPrefix+"_OUTPUT",
		config.EnvPrefix+"_LOG_FORMAT",
		config.EnvPrefix+"_COLOR",
		debugEnvVar,
	)
	for _, name := range unset {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	return dir
}

// setVars marks the given variables as present.
func setVars(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		t.Setenv(name, "1")
	}
}

// requireLinux skips tests that depend on the sysfs hardware reader.
func requireLinux(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("hardware fixtures are read from sysfs on linux only")
	}
}

// writeDMI creates a fake DMI directory.
func writeDMI(t *testing.T, biosVendor, productName, sysVendor string) string {
	t.Helper()

	root := t.TempDir()
	for name, value := range map[string]string{
		smbios.AttrBIOSVendor:   biosVendor,
		smbios.AttrProductName:  productName,
		smbios.AttrSystemVendor: sysVendor,
	} {
		if value == "" {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(value+"\n"), 0o444))
	}
	return root
}

// executeCommand runs the root command with args and returns its stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	loadedConfig = nil
	configLoadErr = nil

	origLogger := slog.Default()
	t.Cleanup(func() {
		_ = closeLogFile()
		closeLogFile = func() error { return nil }
		slog.SetDefault(origLogger)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if stderr.Len() > 0 {
		t.Logf("stderr:\n%s", stderr.String())
	}
	return stdout.String(), err
}
