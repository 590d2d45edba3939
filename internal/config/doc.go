// Package config manages the envdetect CLI's own configuration.
//
// Configuration affects presentation only: output format, log format and
// color. Detection itself has no configurable inputs.
//
// # Configuration File
//
// The file is config.yaml, searched in the current directory and then in
// the XDG config directory (~/.config/envdetect on Linux).
// ENVDETECT_CONFIG_DIR replaces the XDG location.
//
//	version: 1
//	output: text      # text, json, yaml or toml
//	log_format: text  # text or json
//	color: auto       # auto, always or never
//
// Every key can also be set through the environment with the ENVDETECT_
// prefix, e.g. ENVDETECT_OUTPUT=json.
//
// # Loading
//
//	config.Init()
//	cfg, err := config.Load("")
//
// A missing file is not an error unless its path was given explicitly.
// Loaded configurations are validated; use [Validate] to check one
// directly.
package config
