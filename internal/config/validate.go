package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/thoreinstein/envdetect/internal/errors"
	"github.com/thoreinstein/envdetect/internal/logging"
	"github.com/thoreinstein/envdetect/internal/output"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates a schema version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidValue indicates a field holds a value outside its allowed set.
	ErrInvalidValue = errors.New("invalid value")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.Wrap(errors.ErrInvalidConfig, "config is nil")}
	}

	var errs []error

	if cfg.Version != CurrentVersion {
		errs = append(errs, &VersionError{Version: cfg.Version})
	}

	if _, err := output.ParseFormat(cfg.Output); err != nil {
		errs = append(errs, &FieldError{Field: KeyOutput, Value: cfg.Output, Allowed: formatNames()})
	}

	if cfg.LogFormat != "" && !slices.Contains(logFormats(), cfg.LogFormat) {
		errs = append(errs, &FieldError{Field: KeyLogFormat, Value: cfg.LogFormat, Allowed: logFormats()})
	}

	if _, err := output.ParseColorMode(cfg.Color); err != nil {
		errs = append(errs, &FieldError{
			Field:   KeyColor,
			Value:   cfg.Color,
			Allowed: []string{string(output.ColorAuto), string(output.ColorAlways), string(output.ColorNever)},
		})
	}

	return errs
}

func formatNames() []string {
	var names []string
	for _, f := range output.Formats() {
		names = append(names, string(f))
	}
	return names
}

func logFormats() []string {
	return []string{string(logging.FormatText), string(logging.FormatJSON)}
}

// VersionError reports an unsupported schema version.
type VersionError struct {
	Version int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnsupportedVersion, e.Version)
}

func (e *VersionError) Unwrap() error {
	return ErrUnsupportedVersion
}

// FieldError reports a field whose value is not one of the allowed values.
type FieldError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s %q (allowed: %s)", e.Field, ErrInvalidValue, e.Value, strings.Join(e.Allowed, ", "))
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidValue
}
