package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/envdetect/internal/errors"
)

type sample struct {
	Environment string `json:"environment" yaml:"environment" toml:"environment"`
	Score       uint16 `json:"score" yaml:"score" toml:"score"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "", want: FormatText},
		{input: "text", want: FormatText},
		{input: "JSON", want: FormatJSON},
		{input: "yml", want: FormatYAML},
		{input: " toml ", want: FormatTOML},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Flag(t *testing.T) {
	var f Format
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.VarP(&f, "output", "o", "output format")

	require.NoError(t, fs.Parse([]string{"-o", "yaml"}))
	assert.Equal(t, FormatYAML, f)
	assert.Equal(t, "format", f.Type())

	err := fs.Parse([]string{"--output", "csv"})
	assert.Error(t, err)
}

func TestColorMode(t *testing.T) {
	var m ColorMode
	assert.Equal(t, "auto", m.String())

	require.NoError(t, m.Set("ALWAYS"))
	assert.True(t, m.Enabled(&bytes.Buffer{}))

	require.NoError(t, m.Set("never"))
	assert.False(t, m.Enabled(&bytes.Buffer{}))

	// A buffer is never a terminal.
	assert.False(t, ColorAuto.Enabled(&bytes.Buffer{}))

	err := m.Set("sometimes")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidColorMode))
}

func TestEmit_Text(t *testing.T) {
	var buf bytes.Buffer
	done, err := Emit(&buf, FormatText, sample{})
	require.NoError(t, err)
	assert.False(t, done)
	assert.Zero(t, buf.Len())
}

func TestEmit_Structured(t *testing.T) {
	items := []sample{{Environment: "aws-kubernetes", Score: 32768}, {Environment: "kubernetes", Score: 24576}}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		done, err := Emit(&buf, FormatJSON, items)
		require.NoError(t, err)
		assert.True(t, done)
		assert.JSONEq(t, `[{"environment":"aws-kubernetes","score":32768},{"environment":"kubernetes","score":24576}]`, buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := Emit(&buf, FormatYAML, items)
		require.NoError(t, err)

		var got []sample
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, items, got)
	})

	t.Run("toml wraps lists", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := Emit(&buf, FormatTOML, items)
		require.NoError(t, err)

		var got struct {
			Items []sample `toml:"items"`
		}
		require.NoError(t, toml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, items, got.Items)
	})
}

func TestEmit_NilSlice(t *testing.T) {
	var buf bytes.Buffer
	var items []sample
	_, err := Emit(&buf, FormatJSON, items)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", buf.String())
}

func TestTable_Render(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	tbl := NewTable("environment", "score")
	tbl.AddRow("Kubernetes on AWS", "32768")
	tbl.AddRow("Kubernetes", "24576", "ignored")
	tbl.AddRow("QEMU")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, 3, tbl.Len())
	assert.True(t, strings.HasPrefix(lines[0], "ENVIRONMENT"))
	assert.Equal(t, "Kubernetes on AWS  32768", lines[1])
	assert.Equal(t, "Kubernetes         24576", lines[2])
	assert.NotContains(t, buf.String(), "ignored")

	// Columns line up.
	assert.Equal(t, strings.Index(lines[0], "SCORE"), strings.Index(lines[1], "32768"))
}
