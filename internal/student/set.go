package student

import "sort"

// Set is an unordered set of unique strings.
type Set map[string]bool

// NewSet builds a Set from a slice. Empty strings are dropped; callers trim
// items before construction (the loaders split and trim raw fields).
func NewSet(items []string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		s[item] = true
	}
	return s
}

// Add inserts v into the set. Empty strings are ignored.
func (s Set) Add(v string) {
	if v != "" {
		s[v] = true
	}
}

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	return s[v]
}

// Len returns the number of elements.
func (s Set) Len() int {
	return len(s)
}

// Intersect returns the elements present in both sets.
func (s Set) Intersect(other Set) Set {
	// Iterate the smaller side.
	a, b := s, other
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(Set)
	for v := range a {
		if b[v] {
			out[v] = true
		}
	}
	return out
}

// Sorted returns the elements as a sorted slice for deterministic display.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
