// Package detector scores hardware and environment evidence against a
// compute environment's expected signature and ranks the results.
//
// Scoring is soft: no single missing signal disqualifies a detector.
// The hardware and environment dimensions are each scaled to
// [0, MaxIndividual] and summed, so the total never exceeds MaxScore
// and always fits in a Score with one bit of headroom.
package detector

import (
	"slices"

	"github.com/thoreinstein/envdetect/internal/envvars"
	"github.com/thoreinstein/envdetect/internal/smbios"
	"github.com/thoreinstein/envdetect/internal/specificity"
)

// Score is a detection confidence in [0, MaxScore].
type Score uint16

const (
	// MaxScore is a perfect match on both evidence dimensions.
	MaxScore Score = 1 << 15

	// MaxIndividual is a perfect match on one evidence dimension.
	MaxIndividual Score = MaxScore / 2

	// HalfCredit is awarded on a dimension the detector does not constrain.
	HalfCredit Score = MaxIndividual / 2
)

// Confidence returns the score as a fraction of MaxScore.
func (s Score) Confidence() float64 {
	return float64(s) / float64(MaxScore)
}

// Evidence is everything observed during one detection run.
type Evidence struct {
	// Hardware is the SMBIOS identity snapshot.
	Hardware smbios.Snapshot

	// EnvVars holds the names of catalog variables present in the
	// environment. Values are never captured.
	EnvVars envvars.Set
}

// Detector is the immutable signature of one compute environment.
type Detector struct {
	pattern smbios.Pattern
	envVars []string
	envSet  envvars.Set
}

// New creates a detector from a hardware pattern and the environment
// variables the environment is expected to set. Duplicate names are
// dropped; order is otherwise kept.
func New(pattern smbios.Pattern, envVars ...string) Detector {
	set := envvars.NewSet()
	names := make([]string, 0, len(envVars))
	for _, name := range envVars {
		if set.Has(name) {
			continue
		}
		set[name] = struct{}{}
		names = append(names, name)
	}
	return Detector{
		pattern: pattern,
		envVars: names,
		envSet:  set,
	}
}

// Pattern returns the hardware pattern.
func (d Detector) Pattern() smbios.Pattern {
	return d.pattern
}

// EnvVars returns a copy of the required variable names.
func (d Detector) EnvVars() []string {
	return slices.Clone(d.envVars)
}

// Breakdown details how a score was computed.
type Breakdown struct {
	HardwareMatched int   `json:"hardware_matched" yaml:"hardware_matched" toml:"hardware_matched"`
	HardwareTotal   int   `json:"hardware_total" yaml:"hardware_total" toml:"hardware_total"`
	HardwareScore   Score `json:"hardware_score" yaml:"hardware_score" toml:"hardware_score"`
	EnvPresent      int   `json:"env_present" yaml:"env_present" toml:"env_present"`
	EnvRequired     int   `json:"env_required" yaml:"env_required" toml:"env_required"`
	EnvScore        Score `json:"env_score" yaml:"env_score" toml:"env_score"`
	Total           Score `json:"total" yaml:"total" toml:"total"`
}

// Explain scores the evidence and returns the per-dimension breakdown.
func (d Detector) Explain(ev Evidence) Breakdown {
	matched, total := d.pattern.Match(ev.Hardware)
	present := ev.EnvVars.Count(d.envVars)

	b := Breakdown{
		HardwareMatched: matched,
		HardwareTotal:   total,
		HardwareScore:   subScore(matched, total),
		EnvPresent:      present,
		EnvRequired:     len(d.envVars),
		EnvScore:        subScore(present, len(d.envVars)),
	}
	b.Total = b.HardwareScore + b.EnvScore
	return b
}

// Score returns the detector's confidence for the evidence.
func (d Detector) Score(ev Evidence) Score {
	return d.Explain(ev).Total
}

// Compare returns the specificity of d relative to other: the hardware
// fields in order, then the required variable sets.
func (d Detector) Compare(other Detector) specificity.Specificity {
	return specificity.Merge(
		d.pattern.Compare(other.pattern),
		specificity.CompareSets[string](d.envSet, other.envSet),
	)
}

// Evidence returns the evidence of a host on which every signal of this
// detector is observed.
func (d Detector) Evidence() Evidence {
	return Evidence{
		Hardware: d.pattern.Snapshot(),
		EnvVars:  envvars.NewSet(d.envVars...),
	}
}

// subScore scales hits out of total onto [0, MaxIndividual], awarding
// HalfCredit when the dimension is unconstrained.
func subScore(hits, total int) Score {
	if total == 0 {
		return HalfCredit
	}
	if hits > total {
		hits = total
	}
	return Score(uint32(hits) * uint32(MaxIndividual) / uint32(total))
}
