//go:build windows

package smbios

import (
	"golang.org/x/sys/windows/registry"
)

// biosKey is the registry copy of the SMBIOS system information that
// Windows populates at boot.
const biosKey = `HARDWARE\DESCRIPTION\System\BIOS`

// Registry value names under biosKey.
const (
	valueBIOSVendor   = "BIOSVendor"
	valueProductName  = "SystemProductName"
	valueSystemVendor = "SystemManufacturer"
)

// Read captures the SMBIOS identity from the registry. If the key cannot
// be opened every field is absent.
func (r *Reader) Read() Snapshot {
	return r.readKey(registry.LOCAL_MACHINE, biosKey)
}

func (r *Reader) readKey(base registry.Key, path string) Snapshot {
	k, err := registry.OpenKey(base, path, registry.QUERY_VALUE)
	if err != nil {
		r.logger.Debug("hardware identity unavailable", "key", path, "error", err)
		return Snapshot{}
	}
	defer k.Close()

	snap := Snapshot{
		BIOSVendor:   r.readValue(k, valueBIOSVendor),
		ProductName:  r.readValue(k, valueProductName),
		SystemVendor: r.readValue(k, valueSystemVendor),
	}

	r.logger.Debug("read hardware identity",
		"source", path,
		"fields_present", snap.Present())

	return snap
}

func (r *Reader) readValue(k registry.Key, name string) string {
	v, _, err := k.GetStringValue(name)
	if err != nil {
		r.logger.Debug("hardware identity value unavailable", "value", name, "error", err)
		return ""
	}
	return Normalize(v)
}
