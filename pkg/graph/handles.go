package graph

import "slices"

// SortHandles sorts handles in ascending order, in place.
func SortHandles(hs []Handle) {
	slices.Sort(hs)
}

// Set is an unordered collection of handles.
type Set map[Handle]struct{}

// NewSet returns a set holding the given handles.
func NewSet(hs ...Handle) Set {
	s := make(Set, len(hs))
	for _, h := range hs {
		s[h] = struct{}{}
	}
	return s
}

// Add inserts h and reports whether it was absent.
func (s Set) Add(h Handle) bool {
	if _, ok := s[h]; ok {
		return false
	}
	s[h] = struct{}{}
	return true
}

// Has reports whether h is in the set.
func (s Set) Has(h Handle) bool {
	_, ok := s[h]
	return ok
}

// Remove deletes h from the set.
func (s Set) Remove(h Handle) {
	delete(s, h)
}

// Len returns the number of handles in the set.
func (s Set) Len() int { return len(s) }

// Sorted returns the members in ascending order.
func (s Set) Sorted() []Handle {
	out := make([]Handle, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for h := range s {
		out[h] = struct{}{}
	}
	return out
}

// Union returns a new set holding the members of every input set.
func Union(sets ...Set) Set {
	out := make(Set)
	for _, s := range sets {
		for h := range s {
			out[h] = struct{}{}
		}
	}
	return out
}
