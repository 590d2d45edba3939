package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/thoreinstein/envdetect/internal/errors"
)

var (
	headerColor = color.New(color.Bold)
	accentColor = color.New(color.FgGreen)
	mutedColor  = color.New(color.FgHiBlack)
)

// Table renders aligned columns with a bold header row. The first
// column is highlighted.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := make([]string, len(t.headers))
	for i, h := range t.headers {
		header[i] = headerColor.Sprint(strings.ToUpper(h))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range t.rows {
		cells := make([]string, len(row))
		copy(cells, row)
		if len(cells) > 0 {
			cells[0] = accentColor.Sprint(cells[0])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}

// Muted formats text in the de-emphasized color.
func Muted(format string, args ...any) string {
	return mutedColor.Sprintf(format, args...)
}

// Heading formats text as a section heading.
func Heading(format string, args ...any) string {
	return headerColor.Sprintf(format, args...)
}
