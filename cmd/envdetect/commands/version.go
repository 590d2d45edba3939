package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/envdetect/cmd"
	"github.com/thoreinstein/envdetect/internal/output"
	"github.com/thoreinstein/envdetect/pkg/computeenv"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, build date and Go version of envdetect.`,
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		info := versionInfo{
			Version:      cmd.Version,
			Commit:       cmd.Commit,
			Date:         cmd.Date,
			Go:           runtime.Version(),
			Platform:     runtime.GOOS + "/" + runtime.GOARCH,
			Environments: len(computeenv.All()),
		}

		w := c.OutOrStdout()
		if done, err := output.Emit(w, outputFormat, info); done {
			return err
		}

		fmt.Fprintf(w, "envdetect version %s\n", info.Version)
		fmt.Fprintf(w, "  commit:       %s\n", info.Commit)
		fmt.Fprintf(w, "  built:        %s\n", info.Date)
		fmt.Fprintf(w, "  go:           %s\n", info.Go)
		fmt.Fprintf(w, "  platform:     %s\n", info.Platform)
		fmt.Fprintf(w, "  environments: %d\n", info.Environments)
		return nil
	},
}

type versionInfo struct {
	Version      string `json:"version" yaml:"version" toml:"version"`
	Commit       string `json:"commit" yaml:"commit" toml:"commit"`
	Date         string `json:"date" yaml:"date" toml:"date"`
	Go           string `json:"go" yaml:"go" toml:"go"`
	Platform     string `json:"platform" yaml:"platform" toml:"platform"`
	Environments int    `json:"environments" yaml:"environments" toml:"environments"`
}
