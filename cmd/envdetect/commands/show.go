package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/envdetect/internal/errors"
	"github.com/thoreinstein/envdetect/internal/logging"
	"github.com/thoreinstein/envdetect/internal/output"
	"github.com/thoreinstein/envdetect/internal/prompt"
	"github.com/thoreinstein/envdetect/pkg/computeenv"
)

var showInteractive bool

// stdinIsTerminal and findEnvironment are replaced in tests.
var (
	stdinIsTerminal = func() bool {
		return logging.IsTerminal(os.Stdin)
	}
	findEnvironment = pickEnvironment
)

func init() {
	showCmd.Flags().BoolVarP(&showInteractive, "interactive", "i", false,
		"pick the environment with a fuzzy finder, or a numbered list when stdin is not a terminal")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <environment>",
	Short: "Explain how one environment scores on this host",
	Long: `Display an environment's signature and how it scores against the
evidence observed on this host: hardware fields matched, platform variables
present, and the resulting sub-scores.

The environment may be given by slug (aws-kubernetes), name
(AwsKubernetes) or display name ("Kubernetes on AWS").`,
	Example: `  envdetect show gcp-cloud-run-gen2
  envdetect show "Kubernetes on Azure" -o json
  envdetect show --interactive

See Also: envdetect catalog, envdetect compare`,
	Args: func(cmd *cobra.Command, args []string) error {
		if showInteractive {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runShow,
}

// showView is the rendered explanation of one environment.
type showView struct {
	Environment string                 `json:"environment" yaml:"environment" toml:"environment"`
	Name        string                 `json:"name" yaml:"name" toml:"name"`
	Provider    string                 `json:"provider,omitempty" yaml:"provider,omitempty" toml:"provider,omitempty"`
	Platform    string                 `json:"platform" yaml:"platform" toml:"platform"`
	Signature   computeenv.Signature   `json:"signature" yaml:"signature" toml:"signature"`
	Breakdown   computeenv.Breakdown   `json:"breakdown" yaml:"breakdown" toml:"breakdown"`
	Confidence  float64                `json:"confidence" yaml:"confidence" toml:"confidence"`
	Present     []string               `json:"present" yaml:"present" toml:"present"`
	Attributes  []computeenv.Attribute `json:"attributes" yaml:"attributes" toml:"attributes"`
}

func runShow(cmd *cobra.Command, args []string) error {
	var env computeenv.Environment

	if showInteractive {
		picked, ok, err := chooseEnvironment(cmd)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		env = picked
	} else {
		parsed, err := computeenv.ParseEnvironment(args[0])
		if err != nil {
			return errors.NewUserError(err, "Run 'envdetect catalog' to list environments")
		}
		env = parsed
	}

	ev := computeenv.Observe(cmd.Context(), observeOptions()...)
	return writeShow(cmd.OutOrStdout(), newShowView(env, ev))
}

// chooseEnvironment uses the fuzzy finder on a terminal and falls back to a
// numbered prompt on the command's input otherwise.
func chooseEnvironment(cmd *cobra.Command) (computeenv.Environment, bool, error) {
	envs := computeenv.All()

	if stdinIsTerminal() {
		picked, ok, err := findEnvironment(envs)
		if err != nil {
			return 0, false, errors.NewSystemError(err, "")
		}
		return picked, ok, nil
	}

	s := prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.ErrOrStderr())
	idx, err := prompt.Select(s, "Environments", envs, func(e computeenv.Environment) string {
		return fmt.Sprintf("%s (%s)", e, e.Slug())
	})
	switch {
	case errors.Is(err, prompt.ErrSelectionCancelled):
		return 0, false, nil
	case errors.Is(err, prompt.ErrInvalidSelection):
		return 0, false, errors.NewUserError(err, fmt.Sprintf("Enter a number between 1 and %d", len(envs)))
	case err != nil:
		return 0, false, errors.NewSystemError(err, "")
	}
	return envs[idx], true, nil
}

// pickEnvironment runs the fuzzy finder. ok is false when the user aborts.
func pickEnvironment(envs []computeenv.Environment) (computeenv.Environment, bool, error) {
	idx, err := fuzzyfinder.Find(
		envs,
		func(i int) string {
			return fmt.Sprintf("%s (%s)", envs[i], envs[i].Slug())
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return signaturePreview(envs[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, "interactive selection failed")
	}
	return envs[idx], true, nil
}

func signaturePreview(e computeenv.Environment) string {
	sig := e.Signature()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nPlatform: %s\n", e, e.PlatformCode())
	if p, ok := e.CloudProvider(); ok {
		fmt.Fprintf(&b, "Provider: %s\n", p)
	}
	fmt.Fprintf(&b, "\nBIOS vendor:   %s\n", orDash(sig.BIOSVendor))
	fmt.Fprintf(&b, "Product name:  %s\n", orDash(sig.ProductName))
	fmt.Fprintf(&b, "System vendor: %s\n", orDash(sig.SystemVendor))
	if len(sig.EnvVars) > 0 {
		fmt.Fprintf(&b, "\nVariables (%d):\n", len(sig.EnvVars))
		for _, name := range sig.EnvVars {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}
	return b.String()
}

func newShowView(e computeenv.Environment, ev computeenv.Evidence) showView {
	sig := e.Signature()
	b := computeenv.Explain(e, ev)

	present := make([]string, 0, len(sig.EnvVars))
	for _, name := range sig.EnvVars {
		if ev.EnvVars.Has(name) {
			present = append(present, name)
		}
	}

	v := showView{
		Environment: e.Slug(),
		Name:        e.String(),
		Platform:    e.PlatformCode(),
		Signature:   sig,
		Breakdown:   b,
		Confidence:  b.Total.Confidence(),
		Present:     present,
		Attributes:  computeenv.Detection{Environment: e, Score: b.Total}.Attributes(),
	}
	if p, ok := e.CloudProvider(); ok {
		v.Provider = p.Code()
	}
	return v
}

func writeShow(w io.Writer, v showView) error {
	if done, err := output.Emit(w, outputFormat, v); done {
		return err
	}

	fmt.Fprintf(w, "%s\n", output.Heading("%s (%s)", v.Name, v.Environment))
	fmt.Fprintf(w, "Platform: %s\n", v.Platform)
	if v.Provider != "" {
		fmt.Fprintf(w, "Provider: %s\n", v.Provider)
	}

	b := v.Breakdown
	sig := v.Signature

	fmt.Fprintln(w)
	fmt.Fprintln(w, output.Heading("Hardware identity"))
	if sig.HardwareFields() == 0 {
		fmt.Fprintln(w, "  (any)")
	} else {
		for _, f := range []struct{ label, value string }{
			{"bios vendor", sig.BIOSVendor},
			{"product name", sig.ProductName},
			{"system vendor", sig.SystemVendor},
		} {
			if f.value != "" {
				fmt.Fprintf(w, "  %-14s contains %q\n", f.label, f.value)
			}
		}
	}
	fmt.Fprintf(w, "  matched %d of %d, score %d\n", b.HardwareMatched, b.HardwareTotal, b.HardwareScore)

	fmt.Fprintln(w)
	fmt.Fprintln(w, output.Heading("Environment variables"))
	if len(sig.EnvVars) == 0 {
		fmt.Fprintln(w, "  (none)")
	} else {
		present := make(map[string]bool, len(v.Present))
		for _, name := range v.Present {
			present[name] = true
		}
		for _, name := range sig.EnvVars {
			mark := output.Muted("-")
			if present[name] {
				mark = "+"
			}
			fmt.Fprintf(w, "  %s %s\n", mark, name)
		}
	}
	fmt.Fprintf(w, "  present %d of %d, score %d\n", b.EnvPresent, b.EnvRequired, b.EnvScore)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %d of %d (%s)\n", b.Total, computeenv.MaxScore, formatConfidence(v.Confidence))
	return nil
}
