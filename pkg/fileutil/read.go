// Package fileutil provides small file system helpers shared by the
// evidence readers and the CLI.
package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/envdetect/internal/errors"
)

// MaxFileSize is the default read limit (1MB).
const MaxFileSize = 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded the read limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// ReadFileWithLimit reads a file of at most limit bytes. A limit of zero
// or less means MaxFileSize.
//
// Pseudo-files (sysfs, procfs) report a size unrelated to their content,
// so the limit is enforced on the bytes actually read and Stat is only
// trusted for regular files.
func ReadFileWithLimit(path string, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = MaxFileSize
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err == nil && info.Mode().IsRegular() && info.Size() > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s is %d bytes, limit %d", path, info.Size(), limit)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	if int64(len(data)) > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s exceeds limit %d", path, limit)
	}

	return data, nil
}
