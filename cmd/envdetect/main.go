// Package main is the entry point for the envdetect CLI.
package main

import (
	"os"

	"github.com/thoreinstein/envdetect/cmd/envdetect/commands"
	"github.com/thoreinstein/envdetect/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
