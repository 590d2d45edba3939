//go:build linux

package smbios

import (
	"path/filepath"

	"github.com/thoreinstein/envdetect/pkg/fileutil"
)

// Read captures the DMI identity attributes from sysfs.
func (r *Reader) Read() Snapshot {
	snap := Snapshot{
		BIOSVendor:   r.readAttr(AttrBIOSVendor),
		ProductName:  r.readAttr(AttrProductName),
		SystemVendor: r.readAttr(AttrSystemVendor),
	}

	r.logger.Debug("read hardware identity",
		"source", r.root,
		"fields_present", snap.Present())

	return snap
}

func (r *Reader) readAttr(name string) string {
	path := filepath.Join(r.root, name)
	data, err := fileutil.ReadFileWithLimit(path, maxAttrSize)
	if err != nil {
		r.logger.Debug("hardware identity attribute unavailable", "path", path, "error", err)
		return ""
	}
	return Normalize(string(data))
}
