package skills

import "sort"

// Set is a case-normalised collection of skill names.
type Set map[string]struct{}

// NewSet builds a set from the given names, normalising each of them.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts a normalised skill name. Blank names are ignored.
func (s Set) Add(item string) {
	if n := Normalize(item); n != "" {
		s[n] = struct{}{}
	}
}

func (s Set) Has(item string) bool {
	_, ok := s[Normalize(item)]
	return ok
}

func (s Set) Len() int { return len(s) }

// Sorted returns the members in alphabetical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for item := range s {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
