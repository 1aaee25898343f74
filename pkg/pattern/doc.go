// Package pattern matches multi-object patterns against a graph.
//
// A Pattern is an ordered list of constraints over labelled slots. The first
// slot holds the start object. Every later slot is bound by the first
// constraint that names it, which must be generative: given its other
// arguments it produces the candidates for that slot. A Searcher enumerates
// every complete binding by depth-first backtracking:
//
//	p := pattern.New("Protein", "controller").
//		MustAdd(pattern.Neighbors(graph.Downstream, "controls"), "controller", "target").
//		MustAdd(pattern.OfType("Protein"), "target")
//
//	res, err := pattern.NewSearcher(pattern.Options{}).SearchAll(ctx, g, p)
//
// Constraints are values. Composites (And, Or, Xor) map member arguments
// onto their own slots with Map, so one constraint can be reused over
// different slots. Evaluate applies a constraint to concrete handles
// outside a search.
//
// Matches are reported in ascending order of their bound handles, slot by
// slot, whatever the search mode.
package pattern
