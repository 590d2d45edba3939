package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/envdetect/internal/errors"
	"github.com/thoreinstein/envdetect/internal/output"
	"github.com/thoreinstein/envdetect/pkg/computeenv"
)

var (
	detectOne        bool
	detectAttributes bool
)

func init() {
	addDetectFlags(detectCmd)
	rootCmd.AddCommand(detectCmd)
}

func addDetectFlags(c *cobra.Command) {
	c.Flags().BoolVar(&detectOne, "one", false,
		"print only the best guess")
	c.Flags().BoolVar(&detectAttributes, "attributes", false,
		"print OpenTelemetry cloud.provider and cloud.platform attributes")
}

var detectCmd = &cobra.Command{
	Use:   "detect [threshold]",
	Short: "Rank compute environments against local evidence",
	Long: `Score every known compute environment against the local hardware identity
and environment variables, and print those scoring at least the threshold,
most confident first.

The threshold is a whole number between 0 and 32768 and defaults to 0.
Equal scores are ordered by specificity: an environment whose signature
strictly extends another's ranks first.`,
	Example: `  # Rank every environment
  envdetect detect

  # Best guess only, if at least 75% confident
  envdetect detect 24576 --one

  # Resource attributes as JSON
  envdetect detect --one --attributes -o json

See Also: envdetect show, envdetect doctor`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

// detectionView is the rendered form of one ranked environment.
type detectionView struct {
	Rank        int                    `json:"rank" yaml:"rank" toml:"rank"`
	Environment string                 `json:"environment" yaml:"environment" toml:"environment"`
	Name        string                 `json:"name" yaml:"name" toml:"name"`
	Score       computeenv.Score       `json:"score" yaml:"score" toml:"score"`
	Confidence  float64                `json:"confidence" yaml:"confidence" toml:"confidence"`
	Attributes  []computeenv.Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
}

func runDetect(cmd *cobra.Command, args []string) error {
	var threshold computeenv.Score
	if len(args) == 1 {
		t, err := parseThreshold(args[0])
		if err != nil {
			return err
		}
		threshold = t
	}

	detections := computeenv.DetectContext(cmd.Context(), threshold, observeOptions()...)
	if detectOne && len(detections) > 1 {
		detections = detections[:1]
	}

	return writeDetections(cmd.OutOrStdout(), detections, threshold)
}

// parseThreshold parses a threshold argument in [0, MaxScore].
func parseThreshold(s string) (computeenv.Score, error) {
	suggestion := fmt.Sprintf("Use a whole number between 0 and %d", computeenv.MaxScore)

	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, errors.NewUserError(errors.Wrapf(errors.ErrInvalidThreshold, "%q", s), suggestion)
	}
	if v > uint64(computeenv.MaxScore) {
		return 0, errors.NewUserError(
			errors.Wrapf(errors.ErrInvalidThreshold, "%d exceeds the maximum score %d", v, computeenv.MaxScore),
			suggestion)
	}
	return computeenv.Score(v), nil
}

func newDetectionViews(detections []computeenv.Detection) []detectionView {
	views := make([]detectionView, 0, len(detections))
	for i, d := range detections {
		v := detectionView{
			Rank:        i + 1,
			Environment: d.Environment.Slug(),
			Name:        d.Environment.String(),
			Score:       d.Score,
			Confidence:  d.Confidence(),
		}
		if detectAttributes {
			v.Attributes = d.Attributes()
		}
		views = append(views, v)
	}
	return views
}

func writeDetections(w io.Writer, detections []computeenv.Detection, threshold computeenv.Score) error {
	views := newDetectionViews(detections)

	if done, err := output.Emit(w, outputFormat, views); done {
		return err
	}

	if len(views) == 0 {
		fmt.Fprintf(w, "No environment scored at least %d.\n", threshold)
		return nil
	}

	if detectOne {
		return writeBestGuess(w, views[0])
	}

	headers := []string{"Rank", "Environment", "Name", "Score", "Confidence"}
	if detectAttributes {
		headers = append(headers, "Attributes")
	}

	table := output.NewTable(headers...)
	for _, v := range views {
		row := []string{
			strconv.Itoa(v.Rank),
			v.Environment,
			v.Name,
			strconv.Itoa(int(v.Score)),
			formatConfidence(v.Confidence),
		}
		if detectAttributes {
			row = append(row, formatAttributes(v.Attributes))
		}
		table.AddRow(row...)
	}
	return table.Render(w)
}

func writeBestGuess(w io.Writer, v detectionView) error {
	if detectAttributes {
		for _, attr := range v.Attributes {
			fmt.Fprintf(w, "%s=%s\n", attr.Key, attr.Value)
		}
		return nil
	}

	fmt.Fprintf(w, "%s (%s) %s\n", v.Name, v.Environment,
		output.Muted("score %d, %s", v.Score, formatConfidence(v.Confidence)))
	return nil
}

func formatConfidence(c float64) string {
	return fmt.Sprintf("%.0f%%", c*100)
}

func formatAttributes(attrs []computeenv.Attribute) string {
	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		parts = append(parts, attr.Key+"="+attr.Value)
	}
	return strings.Join(parts, " ")
}
