// Package specificity implements the partial order used to break ties
// between detectors whose evidence sets overlap.
//
// A comparison has four outcomes rather than the usual three: two
// detectors that constrain the same evidence in contradictory ways are
// [Incomparable], and that is a permanent answer, not an error.
package specificity

// Specificity is the result of comparing how much matching criteria the
// left operand imposes relative to the right one.
type Specificity int

const (
	// Incomparable means neither side refines the other.
	Incomparable Specificity = iota

	// Less means the left side imposes a strict subset of the right side's
	// constraints.
	Less

	// Equal means both sides impose the same constraints.
	Equal

	// Greater means the left side imposes a strict superset of the right
	// side's constraints.
	Greater
)

// String returns the string representation of the specificity.
func (s Specificity) String() string {
	switch s {
	case Less:
		return "less specific"
	case Equal:
		return "equal"
	case Greater:
		return "more specific"
	case Incomparable:
		return "incomparable"
	default:
		return "unknown"
	}
}

// Reverse returns the result of the same comparison with the operands
// swapped.
func (s Specificity) Reverse() Specificity {
	switch s {
	case Less:
		return Greater
	case Greater:
		return Less
	default:
		return s
	}
}

// Merge combines two independent comparisons of the same pair of
// operands. Equal is the identity and Incomparable absorbs everything;
// Less and Greater together are a conflict and yield Incomparable.
func Merge(a, b Specificity) Specificity {
	switch {
	case a == Incomparable || b == Incomparable:
		return Incomparable
	case a == Equal:
		return b
	case b == Equal:
		return a
	case a == b:
		return a
	default:
		return Incomparable
	}
}

// MergeAll folds Merge over the given comparisons from left to right.
// An empty input is Equal.
func MergeAll(results ...Specificity) Specificity {
	merged := Equal
	for _, r := range results {
		merged = Merge(merged, r)
		if merged == Incomparable {
			return Incomparable
		}
	}
	return merged
}

// CompareValues compares two optional values where the empty string means
// absent. A present value is more specific than an absent one, and two
// different present values are mutually exclusive.
func CompareValues(a, b string) Specificity {
	switch {
	case a == b:
		return Equal
	case b == "":
		return Greater
	case a == "":
		return Less
	default:
		return Incomparable
	}
}

// CompareSets compares two sets by inclusion. A proper subset is less
// specific than its superset.
func CompareSets[T comparable](a, b map[T]struct{}) Specificity {
	aInB := subset(a, b)
	bInA := subset(b, a)

	switch {
	case aInB && bInA:
		return Equal
	case aInB:
		return Less
	case bInA:
		return Greater
	default:
		return Incomparable
	}
}

func subset[T comparable](a, b map[T]struct{}) bool {
	if len(a) > len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
