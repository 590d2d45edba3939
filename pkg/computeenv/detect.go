package computeenv

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/envdetect/internal/detector"
	"github.com/thoreinstein/envdetect/internal/envvars"
	"github.com/thoreinstein/envdetect/internal/logging"
	"github.com/thoreinstein/envdetect/internal/smbios"
	"github.com/thoreinstein/envdetect/internal/specificity"
)

// Score is a detection confidence in [0, MaxScore].
type Score = detector.Score

const (
	MaxScore      = detector.MaxScore
	MaxIndividual = detector.MaxIndividual
	HalfCredit    = detector.HalfCredit
)

// Evidence is the hardware identity and set of present variables observed
// during one detection run.
type Evidence = detector.Evidence

// Breakdown details how a score was computed.
type Breakdown = detector.Breakdown

// Specificity is the result of comparing two environments' signatures.
type Specificity = specificity.Specificity

const (
	Incomparable = specificity.Incomparable
	LessSpecific = specificity.Less
	Equal        = specificity.Equal
	MoreSpecific = specificity.Greater
)

// OpenTelemetry resource attribute keys.
const (
	AttrCloudProvider = "cloud.provider"
	AttrCloudPlatform = "cloud.platform"
)

// Attribute is an OpenTelemetry resource attribute.
type Attribute struct {
	Key   string `json:"key" yaml:"key" toml:"key"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

// Detection is one ranked result.
type Detection struct {
	Environment Environment `json:"environment" yaml:"environment" toml:"environment"`
	Score       Score       `json:"score" yaml:"score" toml:"score"`
}

// Confidence returns the score as a fraction of MaxScore.
func (d Detection) Confidence() float64 {
	return d.Score.Confidence()
}

// Attributes returns the cloud.provider (when known) and cloud.platform
// resource attributes for the detected environment.
func (d Detection) Attributes() []Attribute {
	var attrs []Attribute
	if p, ok := d.Environment.CloudProvider(); ok {
		attrs = append(attrs, Attribute{Key: AttrCloudProvider, Value: p.Code()})
	}
	return append(attrs, Attribute{Key: AttrCloudPlatform, Value: d.Environment.PlatformCode()})
}

type options struct {
	sysfsRoot string
	lookup    envvars.LookupFunc
}

// Option configures evidence collection.
type Option func(*options)

// WithSysfsRoot reads DMI attributes from root instead of /sys/class/dmi/id.
// It has no effect on platforms other than Linux.
func WithSysfsRoot(root string) Option {
	return func(o *options) {
		o.sysfsRoot = root
	}
}

// WithLookup replaces the process environment as the source of variable
// presence.
func WithLookup(lookup func(name string) bool) Option {
	return func(o *options) {
		o.lookup = lookup
	}
}

// NewEvidence builds evidence from raw hardware identity strings and the
// names of the variables that are set.
func NewEvidence(biosVendor, productName, systemVendor string, present ...string) Evidence {
	return Evidence{
		Hardware: smbios.NewSnapshot(biosVendor, productName, systemVendor),
		EnvVars:  envvars.NewSet(present...),
	}
}

// Observe reads the hardware identity and checks which catalog variables
// are present. It never fails; unreadable sources are absent.
func Observe(ctx context.Context, opts ...Option) Evidence {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := logging.FromContext(ctx)

	reader := smbios.NewReaderWithLogger(logger)
	if o.sysfsRoot != "" {
		reader = reader.WithRoot(o.sysfsRoot)
	}

	ev := Evidence{
		Hardware: reader.Read(),
		EnvVars:  envvars.Present(EnvVarNames(), o.lookup),
	}

	logger.Debug("observed evidence",
		"hardware_fields", ev.Hardware.Present(),
		"env_vars_present", len(ev.EnvVars))

	return ev
}

// Detect observes the current host and returns every environment scoring
// at least threshold, most confident first.
func Detect(threshold Score) []Detection {
	return DetectContext(context.Background(), threshold)
}

// DetectContext is Detect with a context carrying the logger and options
// for evidence collection.
func DetectContext(ctx context.Context, threshold Score, opts ...Option) []Detection {
	return DetectWith(ctx, Observe(ctx, opts...), threshold)
}

// DetectWith ranks the catalog against previously observed evidence.
func DetectWith(ctx context.Context, ev Evidence, threshold Score) []Detection {
	logger := logging.FromContext(ctx)

	results := detector.Rank(loadCatalog().candidates, ev, threshold)

	detections := make([]Detection, len(results))
	for i, r := range results {
		detections[i] = Detection{Environment: r.ID, Score: r.Score}
		logger.Log(ctx, logging.LevelTrace, "ranked environment",
			"rank", i+1,
			"environment", r.ID.Slug(),
			"score", r.Score)
	}

	if best, ok := Best(detections); ok {
		logger.Debug("best guess",
			"environment", best.Environment.Slug(),
			"score", best.Score,
			slog.Int("candidates", len(detections)))
	} else {
		logger.Debug("no environment met the threshold", "threshold", threshold)
	}

	return detections
}

// DetectOne returns the best guess for the current host, if any
// environment scores at least threshold.
func DetectOne(threshold Score) (Detection, bool) {
	return Best(Detect(threshold))
}

// Best returns the first detection of a ranked list.
func Best(detections []Detection) (Detection, bool) {
	if len(detections) == 0 {
		return Detection{}, false
	}
	return detections[0], true
}

// Explain scores one environment against the evidence and returns the
// per-dimension breakdown.
func Explain(e Environment, ev Evidence) Breakdown {
	return e.detector().Explain(ev)
}

// Compare returns the specificity of a relative to b.
func Compare(a, b Environment) Specificity {
	return a.detector().Compare(b.detector())
}
