// Package paths resolves the filesystem locations envdetect reads from.
//
// Configuration follows the XDG Base Directory layout through
// github.com/adrg/xdg:
//
//	Linux:   ~/.config/envdetect/config.yaml
//	macOS:   ~/Library/Application Support/envdetect/config.yaml
//	Windows: %LOCALAPPDATA%\envdetect\config.yaml
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the per-user configuration directory.
const AppName = "envdetect"

// Configuration file naming. Viper searches for ConfigName without the
// extension.
const (
	ConfigName     = "config"
	ConfigType     = "yaml"
	ConfigFileName = ConfigName + "." + ConfigType
)

// DMIRoot is the sysfs directory exposing SMBIOS identity attributes on Linux.
const DMIRoot = "/sys/class/dmi/id"

// DefaultDirPerm is the permission for newly created directories.
const DefaultDirPerm = 0o700

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns the envdetect configuration directory.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns the default configuration file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// EnsureDir creates the directory and any missing parents.
// If perm is 0, DefaultDirPerm is used.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}
