// Package commands implements the CLI commands for envdetect.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/envdetect/cmd"
	"github.com/thoreinstein/envdetect/internal/config"
	"github.com/thoreinstein/envdetect/internal/errors"
	"github.com/thoreinstein/envdetect/internal/logging"
	"github.com/thoreinstein/envdetect/internal/output"
	"github.com/thoreinstein/envdetect/pkg/computeenv"
)

// closeLogFile releases the --log-file sink.
var closeLogFile = func() error { return nil }

// debugEnvVar raises the CLI's log level when no -v flag is given.
const debugEnvVar = config.EnvPrefix + "_DEBUG"

var (
	// verbosity holds the count of -v flags.
	verbosity int

	// quiet holds the value of the -q/--quiet flag.
	quiet bool

	// logFormat holds the value of the --log-format flag.
	logFormat string

	// logFile holds the path to the log file.
	logFile string

	// configPath holds the value of the --config flag.
	configPath string

	outputFormat output.Format
	colorMode    output.ColorMode

	// sysfsRoot overrides the DMI directory. Hidden; used for fixtures.
	sysfsRoot string
)

var (
	// loadedConfig is the config read during initialization.
	loadedConfig *config.Config

	// configLoadErr holds any error that occurred during config loading.
	configLoadErr error
)

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	pf.BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error log output")
	pf.StringVar(&logFormat, "log-format", string(logging.FormatText),
		"log format: text, json")
	pf.StringVar(&logFile, "log-file", "",
		"also write logs to file in JSON format")
	pf.StringVar(&configPath, "config", "",
		"config file (default: ./config.yaml, then the user config directory)")
	pf.VarP(&outputFormat, "output", "o",
		"output format: text, json, yaml, toml")
	pf.Var(&colorMode, "color",
		"colorize text output: auto, always, never")
	pf.StringVar(&sysfsRoot, "sysfs-root", "",
		"read DMI attributes from this directory")
	_ = pf.MarkHidden("sysfs-root")

	addDetectFlags(rootCmd)

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("envdetect version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(configPath)
}

var rootCmd = &cobra.Command{
	Use:   "envdetect [threshold]",
	Short: "Identify the compute environment this process runs on",
	Long: `envdetect identifies the managed compute platform the current process
runs on, such as AWS Lambda, Kubernetes on Azure or Google Cloud Run.

Detection only uses local evidence: the SMBIOS vendor and product strings,
and which platform environment variables are set. No network calls are
made and variable values are never read.

Every known environment gets a score between 0 and 32768. Environments
scoring below the threshold (default 0) are dropped and the rest are
printed best first.`,
	Example: `  # Rank every environment
  envdetect

  # Only environments with at least half confidence
  envdetect 16384

  # Best guess as OpenTelemetry resource attributes
  envdetect detect --one --attributes

  # Check what evidence is available
  envdetect doctor

See Also: envdetect catalog, envdetect show`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		applyConfig(cmd)

		if err := setupLogging(cmd); err != nil {
			return err
		}
		colorMode.Apply(cmd.OutOrStdout())

		return checkConfig(cmd)
	},
	RunE: runDetect,
}

// applyConfig fills presentation flags the user did not set from the
// loaded config file.
func applyConfig(cmd *cobra.Command) {
	if loadedConfig == nil {
		return
	}

	flags := cmd.Flags()
	if !flags.Changed("output") && loadedConfig.Output != "" {
		if f, err := output.ParseFormat(loadedConfig.Output); err == nil {
			outputFormat = f
		}
	}
	if !flags.Changed("color") && loadedConfig.Color != "" {
		if m, err := output.ParseColorMode(loadedConfig.Color); err == nil {
			colorMode = m
		}
	}
	if !flags.Changed("log-format") && loadedConfig.LogFormat != "" {
		logFormat = loadedConfig.LogFormat
	}
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("--quiet and --verbose are mutually exclusive"),
			"Use either -q or -v, not both")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv(debugEnvVar); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	format := logging.Format(logFormat)
	switch format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return errors.NewUserError(errors.Newf("invalid log format %q", logFormat),
			"Use --log-format text or --log-format json")
	}

	primary := logging.NewHandlerFor(logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})

	var fileHandler slog.Handler
	if logFile != "" {
		h, closer, err := logging.OpenFile(logFile, min(level, logging.FileLevel))
		if err != nil {
			return errors.NewUserError(err,
				"Check that the --log-file directory exists and is writable")
		}
		closeLogFile = closer.Close
		fileHandler = h
	}
	handler := logging.Tee(primary, fileHandler)

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig reports config load errors for commands that depend on it.
// Commands that diagnose or repair the config run regardless, and
// detection always runs with default presentation settings.
func checkConfig(cmd *cobra.Command) error {
	if configLoadErr == nil {
		return nil
	}

	if !cmd.HasParent() || cmd.Name() == "detect" {
		slog.Warn("ignoring unusable config, using defaults", "error", configLoadErr)
		return nil
	}

	switch cmd.Name() {
	case "help", "version", "doctor", "init", "edit":
		slog.Debug("ignoring config error", "command", cmd.Name(), "error", configLoadErr)
		return nil
	}

	return errors.NewConfigError(configLoadErr)
}

// observeOptions returns evidence options derived from global flags.
func observeOptions() []computeenv.Option {
	var opts []computeenv.Option
	if sysfsRoot != "" {
		opts = append(opts, computeenv.WithSysfsRoot(sysfsRoot))
	}
	return opts
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if err := closeLogFile(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: closing log file: %v\n", err)
		}
	}()
	return rootCmd.Execute()
}

// PrintError writes err and any suggestion it carries to w. Doctor
// outcomes are skipped; the report already describes them.
func PrintError(w io.Writer, err error) {
	if err == nil || errors.Is(err, errDoctorWarnings) || errors.Is(err, errDoctorErrors) {
		return
	}

	fmt.Fprintf(w, "Error: %v\n", err)

	if suggestion := errors.Suggestion(err); suggestion != "" {
		for line := range strings.SplitSeq(suggestion, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}
