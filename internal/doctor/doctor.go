package doctor

import (
	"context"
	"time"

	"github.com/thoreinstein/envdetect/internal/logging"
)

// Check is one diagnostic.
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Category groups related checks ("evidence", "config", "detection").
	Category() string

	// Run executes the check. It never returns nil.
	Run() *CheckResult
}

// Runner executes checks in registration order.
type Runner struct {
	checks []Check
}

// NewRunner creates a runner with the given checks.
func NewRunner(checks ...Check) *Runner {
	r := &Runner{checks: make([]Check, 0, len(checks))}
	for _, c := range checks {
		r.AddCheck(c)
	}
	return r
}

// AddCheck appends c to the checks to run.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes the checks and returns a report. Checks that have not
// started when ctx is done are skipped and the report is marked incomplete.
func (r *Runner) Run(ctx context.Context) *DoctorReport {
	logger := logging.FromContext(ctx)
	start := time.Now()

	report := &DoctorReport{
		Timestamp: start.UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, check := range r.checks {
		if ctx.Err() != nil {
			report.Incomplete = true
			logger.Debug("doctor interrupted", "completed", len(report.Results), "total", len(r.checks))
			break
		}

		checkStart := time.Now()
		result := check.Run()
		report.Results = append(report.Results, result)
		report.Summary.add(result.Status)

		logger.Debug("check finished",
			"check", result.Name,
			"status", result.Status.String(),
			"elapsed", time.Since(checkStart))
	}

	report.Elapsed = time.Since(start).Round(time.Microsecond).String()
	return report
}

// DoctorReport aggregates check results with timing and a summary.
type DoctorReport struct {
	// Timestamp is when the run started.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp" toml:"timestamp"`

	// Elapsed is the wall time of the run, as a duration string.
	Elapsed string `json:"elapsed" yaml:"elapsed" toml:"elapsed"`

	Results []*CheckResult `json:"results" yaml:"results" toml:"results"`
	Summary Summary        `json:"summary" yaml:"summary" toml:"summary"`

	// Incomplete is set when the run was cancelled before every check ran.
	Incomplete bool `json:"incomplete,omitempty" yaml:"incomplete,omitempty" toml:"incomplete,omitempty"`
}

// HasErrors reports whether any check failed.
func (r *DoctorReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings reports whether any check warned.
func (r *DoctorReport) HasWarnings() bool {
	return r.Summary.Warnings > 0
}

// Worst returns the most severe status in the report, or SeverityPass
// when there are no results.
func (r *DoctorReport) Worst() Severity {
	switch {
	case r.Summary.Errors > 0:
		return SeverityError
	case r.Summary.Warnings > 0:
		return SeverityWarning
	case r.Summary.Info > 0:
		return SeverityInfo
	}
	return SeverityPass
}
