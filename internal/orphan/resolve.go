// Package orphan computes the set difference between declared and
// called functions: a declared function that no recorded run ever
// called is an orphan candidate.
package orphan

import "github.com/ghostbust-dev/ghostbust/internal/funcref"

// Resolve returns declared minus called in the canonical path/line/name
// order. A single observation in called removes a ref regardless of
// how many times it was invoked. The input sets carry no order, so the
// sort is what makes repeated runs byte-identical.
func Resolve(declared, called funcref.Set) []funcref.Ref {
	orphans := make(funcref.Set, len(declared))
	for ref := range declared {
		if !called.Contains(ref) {
			orphans.Add(ref)
		}
	}
	return orphans.Sorted()
}
