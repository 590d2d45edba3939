//go:build !linux && !windows

package smbios

import "runtime"

// Read reports every field absent; there is no supported identity source
// on this platform.
func (r *Reader) Read() Snapshot {
	r.logger.Debug("hardware identity unsupported", "goos", runtime.GOOS)
	return Snapshot{}
}
