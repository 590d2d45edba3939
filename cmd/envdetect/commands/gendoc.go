package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/envdetect/cmd"
	"github.com/thoreinstein/envdetect/internal/errors"
	"github.com/thoreinstein/envdetect/internal/paths"
)

var (
	genDocDir    string
	genDocFormat string
)

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "output directory (required)")
	genDocCmd.Flags().StringVar(&genDocFormat, "format", "markdown", "documentation format: markdown or man")
	rootCmd.AddCommand(genDocCmd)
}

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate reference documentation for the CLI",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		if genDocDir == "" {
			return errors.NewUserError(errors.New("output directory is required"), "Pass --dir <directory>")
		}
		if err := paths.EnsureDir(genDocDir, 0); err != nil {
			return errors.NewSystemError(errors.Wrap(err, "creating output directory"), "")
		}

		root := c.Root()
		root.DisableAutoGenTag = true

		var err error
		switch genDocFormat {
		case "markdown", "md":
			err = doc.GenMarkdownTreeCustom(root, genDocDir, docFrontMatter, docLink)
		case "man":
			err = doc.GenManTree(root, &doc.GenManHeader{
				Title:   "ENVDETECT",
				Section: "1",
				Source:  "envdetect " + cmd.Version,
				Manual:  "envdetect manual",
			}, genDocDir)
		default:
			return errors.NewUserError(errors.Newf("unknown documentation format %q", genDocFormat),
				"Use --format markdown or --format man")
		}
		if err != nil {
			return errors.NewSystemError(errors.Wrap(err, "generating documentation"), "")
		}

		fmt.Fprintf(c.OutOrStdout(), "Documentation generated in %s\n", genDocDir)
		return nil
	},
}

// docFrontMatter titles envdetect_config_init.md as "config init".
func docFrontMatter(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := strings.ReplaceAll(strings.TrimPrefix(base, "envdetect_"), "_", " ")
	if base == "envdetect" {
		title = "envdetect"
	}
	return fmt.Sprintf("---\ntitle: %q\ndescription: %q\n---\n\n", title, "Reference for "+title)
}

func docLink(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + "/"
}
