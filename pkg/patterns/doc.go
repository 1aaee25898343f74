// Package patterns is the library of standard biological motifs, expressed
// as pattern.Pattern values over the schema of package model.
//
// Every pattern starts at an entity reference (a gene product or a
// chemical) and reaches its physical entities, the complexes they sit in
// and the interactions those take part in:
//
//	reg := patterns.Default(bl)
//	res, err := searcher.SearchAll(ctx, g, reg.MustGet(patterns.ControlsStateChange))
//
// The blacklist, when given, keeps ubiquitous small molecules out of the
// motifs that would otherwise connect through them.
package patterns
