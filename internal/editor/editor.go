// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/envdetect/internal/errors"
)

// Options configures how the editor process is attached to the terminal.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) withDefaults() Options {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	return o
}

// Open launches the user's preferred editor on path and waits for it to exit.
// The editor command may carry arguments, as in EDITOR="code --wait".
func Open(ctx context.Context, path string, opts Options) error {
	opts = opts.withDefaults()

	argv := Command()
	fmt.Fprintf(opts.Stderr, "Editing %s with %s\n", path, argv[0])

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}

	return nil
}

// Command returns the editor command line split into fields.
// Fallback chain: $EDITOR, $VISUAL, nano, vi.
func Command() []string {
	for _, name := range []string{"EDITOR", "VISUAL"} {
		if fields := strings.Fields(os.Getenv(name)); len(fields) > 0 {
			return fields
		}
	}

	if _, err := exec.LookPath("nano"); err == nil {
		return []string{"nano"}
	}

	// vi is required by POSIX
	return []string{"vi"}
}
