package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/envdetect/internal/config"
	"github.com/thoreinstein/envdetect/internal/editor"
	"github.com/thoreinstein/envdetect/internal/errors"
	"github.com/thoreinstein/envdetect/internal/output"
	"github.com/thoreinstein/envdetect/internal/paths"
)

var configInitForce bool

// openEditor is replaced in tests.
var openEditor = editor.Open

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective presentation configuration and the file it came from.

The config file only controls output: the default --output format, the log
format and color. Detection itself is never configurable.

Files are searched in the current directory and then the user config
directory. ENVDETECT_OUTPUT, ENVDETECT_LOG_FORMAT and ENVDETECT_COLOR
override file values.`,
	Example: `  envdetect config
  envdetect config -o json
  envdetect config init
  envdetect config edit

See Also: envdetect doctor`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeConfig(cmd.OutOrStdout(), config.FileUsed(), loadedConfig)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file with default values to the user config directory, or
to the --config path when given. An existing file is kept unless --force
is set.`,
	Example: `  envdetect config init
  envdetect config init --force
  envdetect config init --config ./config.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in your editor",
	Long: `Open the active config file in $EDITOR (falling back to $VISUAL, nano
and vi) and validate it once the editor exits.

The file edited is the --config path when given, otherwise the file found
in the search path. Run 'envdetect config init' first if none exists.`,
	Example: `  envdetect config edit
  EDITOR="code --wait" envdetect config edit`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

type configView struct {
	File   string         `json:"file" yaml:"file" toml:"file"`
	Config *config.Config `json:"config" yaml:"config" toml:"config"`
}

func writeConfig(w io.Writer, file string, cfg *config.Config) error {
	if cfg == nil {
		cfg = config.Default()
	}

	if done, err := output.Emit(w, outputFormat, configView{File: file, Config: cfg}); done {
		return err
	}

	if file == "" {
		fmt.Fprintf(w, "File: %s\n\n", output.Muted("none, using defaults"))
	} else {
		fmt.Fprintf(w, "File: %s\n\n", file)
	}

	table := output.NewTable("Key", "Value")
	table.AddRow(config.KeyVersion, fmt.Sprint(cfg.Version))
	table.AddRow(config.KeyOutput, cfg.Output)
	table.AddRow(config.KeyLogFormat, cfg.LogFormat)
	table.AddRow(config.KeyColor, cfg.Color)
	return table.Render(w)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		path = filepath.Join(config.Dir(), paths.ConfigFileName)
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return errors.NewUserError(errors.Newf("config file %s already exists", path),
			"Use --force to overwrite it")
	}

	if err := config.Write(path, config.Default()); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "writing config"), "")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		path = config.FileUsed()
	}
	if path == "" {
		return errors.NewUserError(errors.Wrap(errors.ErrNotFound, "no config file to edit"),
			"Create one first with: envdetect config init")
	}

	err := openEditor(cmd.Context(), path, editor.Options{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return errors.NewSystemError(err, "Set $EDITOR to an installed editor")
	}

	config.Init()
	if _, err := config.Load(path); err != nil {
		return errors.NewConfigError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
	return nil
}
