package logging

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether f is a terminal. f is anything with an Fd
// method, typically *os.File.
func IsTerminal(f any) bool {
	if fd, ok := f.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fd.Fd()))
	}
	return false
}

// SupportsColor reports whether ANSI colors should be written to w.
//
// NO_COLOR (non-empty) disables color and CLICOLOR_FORCE (non-empty, not
// "0") forces it. Otherwise color requires a terminal whose TERM is not
// "dumb".
func SupportsColor(w any) bool {
	return colorAllowed(os.LookupEnv, IsTerminal(w))
}

func colorAllowed(lookup func(string) (string, bool), tty bool) bool {
	if v, _ := lookup("NO_COLOR"); v != "" {
		return false
	}
	if v, _ := lookup("CLICOLOR_FORCE"); v != "" && v != "0" {
		return true
	}
	if v, _ := lookup("TERM"); v == "dumb" {
		return false
	}
	return tty
}
