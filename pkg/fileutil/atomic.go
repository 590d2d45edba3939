package fileutil

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/envdetect/internal/errors"
)

const tempPattern = ".envdetect-*.tmp"

// WriteAtomic replaces path with the bytes produced by write. The content
// goes to a synced temporary file in the same directory which is then
// renamed over path, so readers see either the old file or the new one.
// On error path is left untouched.
//
// The parent directory must exist.
func WriteAtomic(path string, perm os.FileMode, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Chmod(perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}

// WriteFile is WriteAtomic for in-memory data.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	return WriteAtomic(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return errors.Wrap(err, "writing temp file")
	})
}

// WriteYAML encodes v to path with two-space indentation. Each line of
// header, if any, is written first as a "# " comment.
func WriteYAML(path string, v any, perm os.FileMode, header string) error {
	return WriteAtomic(path, perm, func(w io.Writer) (err error) {
		// yaml.v3 panics on values it cannot represent, such as funcs.
		defer func() {
			if r := recover(); r != nil {
				err = errors.Newf("marshaling YAML: %v", r)
			}
		}()

		if header != "" {
			for line := range strings.SplitSeq(strings.TrimRight(header, "\n"), "\n") {
				if _, err := io.WriteString(w, strings.TrimRight("# "+line, " ")+"\n"); err != nil {
					return errors.Wrap(err, "writing header")
				}
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return errors.Wrap(err, "writing header")
			}
		}

		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "marshaling YAML")
		}
		return errors.Wrap(enc.Close(), "marshaling YAML")
	})
}
