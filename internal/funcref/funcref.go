package funcref

import "sort"

// Ref identifies one function occurrence: the absolute path of the file
// that declares it, the 1-based line of the definition, and its name.
// Two occurrences are the same function iff all three fields are equal.
type Ref struct {
	Path string
	Line int
	Name string
}

// Set is an unordered collection of unique refs.
type Set map[Ref]struct{}

// NewSet creates a set from the given refs.
func NewSet(refs ...Ref) Set {
	s := make(Set, len(refs))
	for _, ref := range refs {
		s[ref] = struct{}{}
	}
	return s
}

// Add inserts a ref into the set.
func (s Set) Add(ref Ref) {
	s[ref] = struct{}{}
}

// Contains reports whether the set holds ref.
func (s Set) Contains(ref Ref) bool {
	_, ok := s[ref]
	return ok
}

// Union merges every ref from other into s.
func (s Set) Union(other Set) {
	for ref := range other {
		s[ref] = struct{}{}
	}
}

// Less defines the total order over refs: path, then line, then name.
func Less(a, b Ref) bool {
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Name < b.Name
}

// Sorted returns the set's refs in the canonical order. The underlying
// map has no order of its own, so every listing goes through here to
// keep output reproducible.
func (s Set) Sorted() []Ref {
	refs := make([]Ref, 0, len(s))
	for ref := range s {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		return Less(refs[i], refs[j])
	})
	return refs
}
