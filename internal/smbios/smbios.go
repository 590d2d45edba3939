// Package smbios models the firmware identity strings used as hardware
// evidence: BIOS vendor, product name and system vendor.
//
// A [Snapshot] is what was observed on this host; a [Pattern] is what a
// compute environment expects to see. Both use the empty string for
// "absent": a snapshot field that could not be read, or a pattern field
// that imposes no constraint.
package smbios

import (
	"strings"

	"github.com/thoreinstein/envdetect/internal/specificity"
)

// Snapshot holds the normalized hardware identity observed on the host.
// Fields are lower-cased and trimmed; an empty field was unreadable or
// unpopulated.
type Snapshot struct {
	BIOSVendor   string `json:"bios_vendor,omitempty" yaml:"bios_vendor,omitempty" toml:"bios_vendor,omitempty"`
	ProductName  string `json:"product_name,omitempty" yaml:"product_name,omitempty" toml:"product_name,omitempty"`
	SystemVendor string `json:"system_vendor,omitempty" yaml:"system_vendor,omitempty" toml:"system_vendor,omitempty"`
}

// NewSnapshot builds a snapshot from raw values, normalizing each one.
func NewSnapshot(biosVendor, productName, systemVendor string) Snapshot {
	return Snapshot{
		BIOSVendor:   Normalize(biosVendor),
		ProductName:  Normalize(productName),
		SystemVendor: Normalize(systemVendor),
	}
}

// Empty reports whether no field could be observed.
func (s Snapshot) Empty() bool {
	return s == Snapshot{}
}

// Present returns the number of observed fields.
func (s Snapshot) Present() int {
	return countNonEmpty(s.BIOSVendor, s.ProductName, s.SystemVendor)
}

// Pattern is a partially specified hardware identity. Every non-empty
// field is a substring that must occur in the matching snapshot field,
// compared without regard to case.
type Pattern struct {
	BIOSVendor   string `json:"bios_vendor,omitempty" yaml:"bios_vendor,omitempty" toml:"bios_vendor,omitempty"`
	ProductName  string `json:"product_name,omitempty" yaml:"product_name,omitempty" toml:"product_name,omitempty"`
	SystemVendor string `json:"system_vendor,omitempty" yaml:"system_vendor,omitempty" toml:"system_vendor,omitempty"`
}

// Fields returns the number of constrained fields.
func (p Pattern) Fields() int {
	return countNonEmpty(p.BIOSVendor, p.ProductName, p.SystemVendor)
}

// Universal reports whether the pattern constrains nothing.
func (p Pattern) Universal() bool {
	return p.Fields() == 0
}

// Match returns how many of the pattern's constrained fields are found
// in the snapshot, and how many fields the pattern constrains.
func (p Pattern) Match(s Snapshot) (matched, total int) {
	p = p.folded()
	pairs := [...][2]string{
		{p.BIOSVendor, s.BIOSVendor},
		{p.ProductName, s.ProductName},
		{p.SystemVendor, s.SystemVendor},
	}

	for _, pair := range pairs {
		want, got := pair[0], pair[1]
		if want == "" {
			continue
		}
		total++
		// An absent observation never matches, even though every string
		// contains the empty string.
		if got != "" && strings.Contains(got, want) {
			matched++
		}
	}

	return matched, total
}

// Compare returns the specificity of p relative to other, merging the
// three field comparisons in order.
func (p Pattern) Compare(other Pattern) specificity.Specificity {
	p, other = p.folded(), other.folded()
	return specificity.MergeAll(
		specificity.CompareValues(p.BIOSVendor, other.BIOSVendor),
		specificity.CompareValues(p.ProductName, other.ProductName),
		specificity.CompareValues(p.SystemVendor, other.SystemVendor),
	)
}

// Snapshot returns the snapshot a host matching exactly this pattern
// would produce. Unconstrained fields are absent.
func (p Pattern) Snapshot() Snapshot {
	return NewSnapshot(p.BIOSVendor, p.ProductName, p.SystemVendor)
}

func (p Pattern) folded() Pattern {
	return Pattern{
		BIOSVendor:   strings.ToLower(p.BIOSVendor),
		ProductName:  strings.ToLower(p.ProductName),
		SystemVendor: strings.ToLower(p.SystemVendor),
	}
}

// Normalize trims surrounding whitespace (including the trailing newline
// of sysfs attributes and NUL padding) and lower-cases the value.
func Normalize(s string) string {
	return strings.ToLower(strings.Trim(s, " \t\r\n\x00"))
}

func countNonEmpty(values ...string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}
