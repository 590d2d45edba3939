package output

import (
	"encoding/json"
	"io"
	"reflect"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/envdetect/internal/errors"
)

// tomlListKey holds top-level lists in TOML output, which must be a table.
const tomlListKey = "items"

// Emit writes v to w in a structured format. It returns false without
// writing anything when the format is text, leaving the caller to render
// its own text.
//
// Nil slices are written as empty lists.
func Emit(w io.Writer, format Format, v any) (bool, error) {
	if !format.Structured() {
		return false, nil
	}
	return true, Encode(w, format, v)
}

// Encode writes v to w in the given structured format.
func Encode(w io.Writer, format Format, v any) error {
	v = normalizeNilSlice(v)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encoding JSON")

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return errors.Wrap(enc.Close(), "closing YAML encoder")

	case FormatTOML:
		if isList(v) {
			v = map[string]any{tomlListKey: v}
		}
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return errors.Wrap(enc.Encode(v), "encoding TOML")

	default:
		return errors.Wrapf(ErrInvalidFormat, "%q is not a structured format", format)
	}
}

func normalizeNilSlice(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return reflect.MakeSlice(rv.Type(), 0, 0).Interface()
	}
	return v
}

func isList(v any) bool {
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
