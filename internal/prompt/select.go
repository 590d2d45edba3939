// Package prompt provides line-based CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thoreinstein/envdetect/internal/errors"
)

// Sentinel errors for item selection.
var (
	ErrNoItems            = errors.New("nothing to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles numbered selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stderr.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stderr,
	}
}

// NewSelectorWithIO creates a Selector with custom reader and writer.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// Select prints items as a numbered list under title and reads the
// chosen number. It returns the index of the chosen item.
//
// Returns:
//   - ErrNoItems if the list is empty
//   - 0 without prompting if only one item exists
//   - 0 on empty input (the default)
//   - ErrInvalidSelection if the input is not a number in range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func Select[T any](s *Selector, title string, items []T, label func(T) string) (int, error) {
	if len(items) == 0 {
		return 0, ErrNoItems
	}
	if len(items) == 1 {
		return 0, nil
	}

	fmt.Fprintf(s.writer, "%s:\n", title)
	width := len(strconv.Itoa(len(items)))
	for i, item := range items {
		fmt.Fprintf(s.writer, "  [%*d] %s\n", width, i+1, label(item))
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := bufio.NewReader(s.reader).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		if errors.Is(err, io.EOF) {
			return 0, ErrSelectionCancelled
		}
		return 0, errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if selection < 1 || selection > len(items) {
		return 0, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(items))
	}

	return selection - 1, nil
}
