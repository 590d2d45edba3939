package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/envdetect/internal/errors"
	"github.com/thoreinstein/envdetect/internal/output"
	"github.com/thoreinstein/envdetect/internal/paths"
	"github.com/thoreinstein/envdetect/pkg/fileutil"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "ENVDETECT"

// CurrentVersion is the config schema version this build understands.
const CurrentVersion = 1

// Config keys.
const (
	KeyVersion   = "version"
	KeyOutput    = "output"
	KeyLogFormat = "log_format"
	KeyColor     = "color"
)

// fileHeader is written as a comment at the top of generated config files.
const fileHeader = `envdetect configuration

These settings only change how results are presented. Detection itself
is not configurable. ENVDETECT_OUTPUT, ENVDETECT_LOG_FORMAT and
ENVDETECT_COLOR override the values below.`

// Config represents the top-level configuration structure.
type Config struct {
	Version   int    `mapstructure:"version" yaml:"version" json:"version" toml:"version"`
	Output    string `mapstructure:"output" yaml:"output" json:"output" toml:"output"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" json:"log_format" toml:"log_format"`
	Color     string `mapstructure:"color" yaml:"color" json:"color" toml:"color"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:   CurrentVersion,
		Output:    string(output.FormatText),
		LogFormat: "text",
		Color:     string(output.ColorAuto),
	}
}

// Dir returns the directory searched after the current directory.
func Dir() string {
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	return paths.ConfigDir()
}

// Init resets Viper and configures search paths, environment binding and
// defaults. Call it once at startup before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName(paths.ConfigName)
	viper.SetConfigType(paths.ConfigType)

	viper.AddConfigPath(".")
	viper.AddConfigPath(Dir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	def := Default()
	viper.SetDefault(KeyVersion, def.Version)
	viper.SetDefault(KeyOutput, def.Output)
	viper.SetDefault(KeyLogFormat, def.LogFormat)
	viper.SetDefault(KeyColor, def.Color)
}

// Load reads and validates the configuration. An empty path searches the
// default locations and falls back to defaults when nothing is found; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.WithHint(errors.Wrapf(errors.ErrNotFound, "config file %s", path),
				"Create it with: envdetect config init --config "+path)
		}
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "validating config")
	}

	return &cfg, nil
}

// FileUsed returns the path of the loaded config file, or "" when
// defaults are in effect.
func FileUsed() string {
	return viper.ConfigFileUsed()
}

// Write saves cfg to path atomically, creating the parent directory.
func Write(path string, cfg *Config) error {
	if errs := Validate(cfg); len(errs) > 0 {
		return errors.Wrap(errs[0], "validating config")
	}
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	return fileutil.WriteYAML(path, cfg, 0o600, fileHeader)
}
