package output

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/thoreinstein/envdetect/internal/errors"
	"github.com/thoreinstein/envdetect/internal/logging"
)

// ColorMode controls colored text output. It implements pflag.Value.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ErrInvalidColorMode is returned for an unrecognized color mode.
var ErrInvalidColorMode = errors.New("invalid color mode")

var _ pflag.Value = (*ColorMode)(nil)

// ParseColorMode parses a color mode name case-insensitively.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", errors.Wrapf(ErrInvalidColorMode, "%q (valid: auto, always, never)", s)
}

// String implements pflag.Value.
func (m *ColorMode) String() string {
	if *m == "" {
		return string(ColorAuto)
	}
	return string(*m)
}

// Set implements pflag.Value.
func (m *ColorMode) Set(s string) error {
	parsed, err := ParseColorMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *ColorMode) Type() string {
	return "mode"
}

// Enabled reports whether text written to w should be colored.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return logging.SupportsColor(w)
	}
}

// Apply sets fatih/color's global switch for output written to w.
func (m ColorMode) Apply(w io.Writer) {
	color.NoColor = !m.Enabled(w)
}
