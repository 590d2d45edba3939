package doctor

import (
	"context"
	"fmt"
	"runtime"

	"github.com/thoreinstein/envdetect/internal/config"
	"github.com/thoreinstein/envdetect/internal/envvars"
	"github.com/thoreinstein/envdetect/internal/redact"
	"github.com/thoreinstein/envdetect/internal/smbios"
	"github.com/thoreinstein/envdetect/pkg/computeenv"
)

// Check categories.
const (
	CategoryEvidence  = "evidence"
	CategoryConfig    = "config"
	CategoryDetection = "detection"
)

// Confidence levels used by DetectionCheck.
const (
	ConfidentThreshold = 0.75
	PlausibleThreshold = 0.5
)

// HardwareCheck verifies that the SMBIOS identity strings can be read.
type HardwareCheck struct {
	reader *smbios.Reader
	goos   string
}

var _ Check = (*HardwareCheck)(nil)

// NewHardwareCheck creates a check that reads identity through reader.
func NewHardwareCheck(reader *smbios.Reader) *HardwareCheck {
	return &HardwareCheck{
		reader: reader,
		goos:   runtime.GOOS,
	}
}

// Name returns the check identifier.
func (c *HardwareCheck) Name() string {
	return "hardware-identity"
}

// Category returns the check category.
func (c *HardwareCheck) Category() string {
	return CategoryEvidence
}

// Run reads the identity snapshot and reports how many fields were found.
func (c *HardwareCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{},
	}

	if c.goos != "linux" && c.goos != "windows" {
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("hardware identity is not available on %s", c.goos)
		return result
	}

	snap := c.reader.Read()
	present := snap.Present()

	if c.goos == "linux" {
		result.Details["source"] = c.reader.Root()
	}
	if snap.BIOSVendor != "" {
		result.Details["bios_vendor"] = snap.BIOSVendor
	}
	if snap.ProductName != "" {
		result.Details["product_name"] = snap.ProductName
	}
	if snap.SystemVendor != "" {
		result.Details["system_vendor"] = snap.SystemVendor
	}
	result.Details["fields_present"] = present

	switch {
	case present == 3:
		result.Status = SeverityPass
		result.Message = "all hardware identity fields readable"
	case present > 0:
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("%d of 3 hardware identity fields readable", present)
		result.FixHint = c.fixHint()
	default:
		result.Status = SeverityWarning
		result.Message = "no hardware identity fields readable"
		result.FixHint = c.fixHint()
	}

	return result
}

func (c *HardwareCheck) fixHint() string {
	if c.goos == "windows" {
		return `Check read access to HKLM\HARDWARE\DESCRIPTION\System\BIOS`
	}
	return fmt.Sprintf("Check that %s is mounted and readable; containers often hide it", c.reader.Root())
}

// EnvironmentCheck reports which platform variables are set. It never
// looks at values.
type EnvironmentCheck struct {
	names  []string
	lookup envvars.LookupFunc
}

var _ Check = (*EnvironmentCheck)(nil)

// NewEnvironmentCheck creates a check over names. A nil lookup uses the
// process environment.
func NewEnvironmentCheck(names []string, lookup envvars.LookupFunc) *EnvironmentCheck {
	return &EnvironmentCheck{
		names:  names,
		lookup: lookup,
	}
}

// Name returns the check identifier.
func (c *EnvironmentCheck) Name() string {
	return "environment-variables"
}

// Category returns the check category.
func (c *EnvironmentCheck) Category() string {
	return CategoryEvidence
}

// Run checks variable presence.
func (c *EnvironmentCheck) Run() *CheckResult {
	set := envvars.Present(c.names, c.lookup)
	names := set.Names()

	sensitive := 0
	for _, name := range names {
		if redact.ShouldMask(name) {
			sensitive++
		}
	}

	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details: map[string]any{
			"known":     len(c.names),
			"present":   len(names),
			"variables": names,
			"sensitive": sensitive,
		},
	}

	if len(names) == 0 {
		result.Status = SeverityInfo
		result.Message = "no platform variables set; detection relies on hardware identity"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d of %d platform variables set", len(names), len(c.names))
	return result
}

// ConfigCheck validates the presentation config.
type ConfigCheck struct {
	path     string
	load     func(path string) (*config.Config, error)
	fileUsed func() string
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a check that loads the config at path, or
// searches the default locations when path is empty.
func NewConfigCheck(path string) *ConfigCheck {
	return &ConfigCheck{
		path:     path,
		load:     config.Load,
		fileUsed: config.FileUsed,
	}
}

// Name returns the check identifier.
func (c *ConfigCheck) Name() string {
	return "config"
}

// Category returns the check category.
func (c *ConfigCheck) Category() string {
	return CategoryConfig
}

// Run loads and validates the config.
func (c *ConfigCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{},
	}

	cfg, err := c.load(c.path)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("config could not be loaded: %v", err)
		result.FixHint = "Fix the file or recreate it with: envdetect config init --force"
		if c.path != "" {
			result.Details["path"] = c.path
		}
		return result
	}

	result.Details["output"] = cfg.Output
	result.Details["log_format"] = cfg.LogFormat
	result.Details["color"] = cfg.Color

	file := c.fileUsed()
	if file == "" {
		result.Status = SeverityPass
		result.Message = "no config file found, using defaults"
		result.Details["search_dir"] = config.Dir()
		return result
	}

	result.Status = SeverityPass
	result.Message = "config file is valid"
	result.Details["path"] = file
	return result
}

// DetectionCheck ranks the catalog and reports how confident the best
// guess is.
type DetectionCheck struct {
	evidence computeenv.Evidence
}

var _ Check = (*DetectionCheck)(nil)

// NewDetectionCheck creates a check over previously observed evidence.
func NewDetectionCheck(ev computeenv.Evidence) *DetectionCheck {
	return &DetectionCheck{evidence: ev}
}

// Name returns the check identifier.
func (c *DetectionCheck) Name() string {
	return "detection"
}

// Category returns the check category.
func (c *DetectionCheck) Category() string {
	return CategoryDetection
}

// Run ranks every environment with no threshold.
func (c *DetectionCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{},
	}

	detections := computeenv.DetectWith(context.Background(), c.evidence, 0)
	best, ok := computeenv.Best(detections)
	if !ok {
		result.Status = SeverityError
		result.Message = "no environment could be scored"
		return result
	}

	confidence := best.Confidence()
	result.Details["best"] = best.Environment.Slug()
	result.Details["score"] = int(best.Score)
	result.Details["confidence"] = confidence

	if len(detections) > 1 {
		runnerUp := detections[1]
		result.Details["runner_up"] = runnerUp.Environment.Slug()
		result.Details["runner_up_score"] = int(runnerUp.Score)
		if runnerUp.Score == best.Score {
			if computeenv.Compare(best.Environment, runnerUp.Environment) == computeenv.MoreSpecific {
				result.Details["tie_broken_by"] = "specificity"
			} else {
				result.Details["tie_broken_by"] = "catalog order"
			}
		}
	}

	msg := fmt.Sprintf("best guess %s (%.0f%% confidence)", best.Environment, confidence*100)

	switch {
	case confidence >= ConfidentThreshold:
		result.Status = SeverityPass
		result.Message = msg
	case confidence >= PlausibleThreshold:
		result.Status = SeverityInfo
		result.Message = msg
	default:
		result.Status = SeverityWarning
		result.Message = msg
		result.FixHint = "Few platform signals were observed; treat the best guess as unknown"
	}

	return result
}

// DefaultChecks returns the checks run by `envdetect doctor`.
func DefaultChecks(configPath string, reader *smbios.Reader, ev computeenv.Evidence) []Check {
	return []Check{
		NewHardwareCheck(reader),
		NewEnvironmentCheck(computeenv.EnvVarNames(), nil),
		NewConfigCheck(configPath),
		NewDetectionCheck(ev),
	}
}
