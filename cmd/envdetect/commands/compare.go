package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/envdetect/internal/errors"
	"github.com/thoreinstein/envdetect/internal/output"
	"github.com/thoreinstein/envdetect/pkg/computeenv"
)

func init() {
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare <a> <b>",
	Short: "Compare the specificity of two environments",
	Long: `Report whether environment a is more specific, less specific, equal to or
incomparable with environment b.

An environment is more specific when its hardware identity pattern and its
set of platform variables both extend the other's. Specificity decides the
order of environments with equal scores.`,
	Example: `  envdetect compare aws-kubernetes kubernetes
  envdetect compare azure-container-apps azure-container-apps-job -o json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

type compareView struct {
	A           string `json:"a" yaml:"a" toml:"a"`
	B           string `json:"b" yaml:"b" toml:"b"`
	Specificity string `json:"specificity" yaml:"specificity" toml:"specificity"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	envs := make([]computeenv.Environment, len(args))
	for i, arg := range args {
		e, err := computeenv.ParseEnvironment(arg)
		if err != nil {
			return errors.NewUserError(err, "Run 'envdetect catalog' to list environments")
		}
		envs[i] = e
	}

	return writeCompare(cmd.OutOrStdout(), envs[0], envs[1])
}

func writeCompare(w io.Writer, a, b computeenv.Environment) error {
	spec := computeenv.Compare(a, b)

	v := compareView{A: a.Slug(), B: b.Slug(), Specificity: spec.String()}
	if done, err := output.Emit(w, outputFormat, v); done {
		return err
	}

	switch spec {
	case computeenv.Equal:
		fmt.Fprintf(w, "%s and %s have equal signatures\n", a, b)
	case computeenv.Incomparable:
		fmt.Fprintf(w, "%s and %s are incomparable\n", a, b)
	default:
		fmt.Fprintf(w, "%s is %s than %s\n", a, spec, b)
	}
	return nil
}
