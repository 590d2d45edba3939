// Package logging provides structured logging for the envdetect CLI using
// log/slog.
//
// Text output goes through [Handler], which colors levels on a terminal
// and masks attribute values whose keys or contents look like credentials.
// JSON output applies the same masking through a ReplaceAttr hook.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(2),
//		Format: logging.FormatText,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Library code retrieves the logger with [FromContext], which falls back
// to slog.Default.
//
// # Testing
//
// Use [ForTest] to route log output through the testing framework:
//
//	r := smbios.NewReaderWithLogger(logging.ForTest(t))
package logging
