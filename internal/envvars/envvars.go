// Package envvars reports which environment variables are set, by name.
//
// Only presence is ever recorded. Values of detected variables routinely
// hold credentials (AWS_SECRET_ACCESS_KEY, AWS_SESSION_TOKEN), so nothing
// in this package returns, stores or logs them.
package envvars

import (
	"os"
	"slices"
)

// LookupFunc reports whether the named variable is set.
type LookupFunc func(name string) bool

// Has reports whether the named variable is set in the process
// environment. The value is discarded immediately.
func Has(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}

// Set is a set of variable names.
type Set map[string]struct{}

// NewSet builds a set from the given names. Duplicates collapse.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

// Present returns the subset of names that lookup reports as set.
// A nil lookup uses Has.
func Present(names []string, lookup LookupFunc) Set {
	if lookup == nil {
		lookup = Has
	}
	s := make(Set)
	for _, name := range names {
		if _, seen := s[name]; seen {
			continue
		}
		if lookup(name) {
			s[name] = struct{}{}
		}
	}
	return s
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Count returns how many of names are in the set.
func (s Set) Count(names []string) int {
	n := 0
	for _, name := range names {
		if s.Has(name) {
			n++
		}
	}
	return n
}

// Without returns a copy of the set with the given names removed.
func (s Set) Without(names ...string) Set {
	c := make(Set, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	for _, name := range names {
		delete(c, name)
	}
	return c
}

// Names returns the members in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
