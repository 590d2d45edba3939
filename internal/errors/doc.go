// Package errors provides error handling conventions for the envdetect CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions. It also re-exports the
// constructors and inspection helpers from [github.com/cockroachdb/errors]
// so callers need a single import.
//
// The detection library itself never returns errors: unreadable evidence
// is treated as absent. Errors only arise at the CLI boundary (bad
// arguments, unreadable config files, output encoding).
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid threshold, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, encoding, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion:
//
//	err := errors.NewUserError(errors.ErrInvalidThreshold, "Use a number between 0 and 32768")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
//
// Lower layers attach advice with [WithHint] instead. [Suggestion] returns
// the ExitError suggestion if there is one and the flattened hints otherwise.
package errors
