package smbios

import (
	"log/slog"

	"github.com/thoreinstein/envdetect/internal/paths"
)

// DefaultRoot is the sysfs directory exposing DMI identity attributes on Linux.
const DefaultRoot = paths.DMIRoot

// Attribute file names under the DMI root.
const (
	AttrBIOSVendor   = "bios_vendor"
	AttrProductName  = "product_name"
	AttrSystemVendor = "sys_vendor"
)

// maxAttrSize bounds a single attribute read; sysfs attributes fit in a page.
const maxAttrSize = 4096

// Reader captures hardware identity snapshots from the host.
// Reading never fails: anything that cannot be read is reported absent.
type Reader struct {
	root   string
	logger *slog.Logger
}

// NewReader creates a Reader for the host's default identity source.
func NewReader() *Reader {
	return NewReaderWithLogger(slog.Default())
}

// NewReaderWithLogger creates a Reader that reports unreadable sources to logger.
func NewReaderWithLogger(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		root:   DefaultRoot,
		logger: logger,
	}
}

// WithRoot returns a copy of the reader that reads DMI attributes from
// root instead of DefaultRoot. Only the Linux reader consults the root.
func (r *Reader) WithRoot(root string) *Reader {
	c := *r
	c.root = root
	return &c
}

// Root returns the DMI directory the reader uses on Linux.
func (r *Reader) Root() string {
	return r.root
}

// Read captures a snapshot using the default reader.
func Read() Snapshot {
	return NewReader().Read()
}
