package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/envdetect/internal/doctor"
	"github.com/thoreinstein/envdetect/internal/errors"
	"github.com/thoreinstein/envdetect/internal/logging"
	"github.com/thoreinstein/envdetect/internal/output"
	"github.com/thoreinstein/envdetect/internal/smbios"
	"github.com/thoreinstein/envdetect/pkg/computeenv"
)

var (
	doctorJSON   bool
	doctorSilent bool
	doctorAll    bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON (same as --output json)")
	doctorCmd.Flags().BoolVar(&doctorSilent, "silent", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false,
		"show every check including passed ones")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the evidence detection relies on",
	Long: `Run diagnostic checks on the evidence envdetect uses: whether the hardware
identity is readable, which platform variables are set, whether the config
file is valid, and how confident the best guess is.

Variable values are never read or printed, only names.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --all       Show all checks including passed ones
  --silent    No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - No errors or warnings
  1 - Warnings present, no errors
  2 - Errors present`,
	Args:    cobra.NoArgs,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	for _, set := range []bool{doctorJSON, doctorSilent, doctorAll} {
		if set {
			count++
		}
	}

	if count > 1 {
		return errors.NewUserError(errors.New("flags --json, --silent, and --all are mutually exclusive"), "")
	}

	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	reader := smbios.NewReaderWithLogger(logger)
	if sysfsRoot != "" {
		reader = reader.WithRoot(sysfsRoot)
	}
	ev := computeenv.Observe(ctx, observeOptions()...)

	report := doctor.NewRunner(doctor.DefaultChecks(configPath, reader, ev)...).Run(ctx)

	if err := outputDoctorReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	switch report.Worst() {
	case doctor.SeverityError:
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	case doctor.SeverityWarning:
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

func outputDoctorReport(w io.Writer, report *doctor.DoctorReport) error {
	if doctorSilent {
		return nil
	}

	format := outputFormat
	if doctorJSON {
		format = output.FormatJSON
	}
	if done, err := output.Emit(w, format, report); done {
		return err
	}

	return outputDoctorText(w, report)
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport) error {
	// In normal mode, show only errors and warnings
	showAll := doctorAll

	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		if result.FixHint != "" && (problem || showAll) {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}

	if report.Incomplete {
		fmt.Fprintln(w, output.Muted("Interrupted before every check ran."))
	}
	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)

	return nil
}

var (
	passColor    = color.New(color.FgGreen)
	infoColor    = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return passColor.Sprint("✓")
	case doctor.SeverityInfo:
		return infoColor.Sprint("ℹ")
	case doctor.SeverityWarning:
		return warningColor.Sprint("⚠")
	case doctor.SeverityError:
		return errorColor.Sprint("✗")
	default:
		return "?"
	}
}

// errDoctorWarnings is a sentinel error for exit code 1.
var errDoctorWarnings = errors.New("warnings found")

// errDoctorErrors is a sentinel error for exit code 2.
var errDoctorErrors = errors.New("errors found")
