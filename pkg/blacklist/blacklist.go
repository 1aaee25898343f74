// Package blacklist identifies ubiquitous nodes, the uninformative hubs such
// as water or ATP that would otherwise dominate traversal results.
//
// A Blacklist is keyed by model identifier, not by handle, so one blacklist
// can serve every graph built from the same data. It never changes after
// construction and may be shared between goroutines.
package blacklist

import (
	"sort"

	"github.com/dd0wney/cluso-pathways/pkg/graph"
)

// Context restricts the role in which an entry is ubiquitous.
type Context uint8

const (
	// Both means ubiquitous whatever the role
	Both Context = iota
	// Input means ubiquitous when consumed
	Input
	// Output means ubiquitous when produced
	Output
)

// String returns the string representation of a context
func (c Context) String() string {
	switch c {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "both"
	}
}

// Entry is one blacklisted identifier.
type Entry struct {
	ID      string
	Score   int // higher is more ubiquitous
	Context Context
}

// Blacklist is an immutable set of ubiquitous identifiers.
type Blacklist struct {
	entries map[string]Entry
}

// New builds a blacklist from entries. A repeated id keeps the highest
// score; differing contexts collapse to Both.
func New(entries ...Entry) *Blacklist {
	b := &Blacklist{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		b.add(e)
	}
	return b
}

// FromIDs builds a blacklist of ids ubiquitous in every context.
func FromIDs(ids ...string) *Blacklist {
	entries := make([]Entry, len(ids))
	for i, id := range ids {
		entries[i] = Entry{ID: id, Score: 1, Context: Both}
	}
	return New(entries...)
}

func (b *Blacklist) add(e Entry) {
	prev, ok := b.entries[e.ID]
	if !ok {
		b.entries[e.ID] = e
		return
	}
	if e.Score > prev.Score {
		prev.Score = e.Score
	}
	if e.Context != prev.Context {
		prev.Context = Both
	}
	b.entries[e.ID] = prev
}

// Merge returns a new blacklist holding the entries of both.
func (b *Blacklist) Merge(other *Blacklist) *Blacklist {
	out := New(b.Entries()...)
	for _, e := range other.Entries() {
		out.add(e)
	}
	return out
}

// Len returns the number of entries.
func (b *Blacklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Contains reports whether the id is blacklisted in any context.
func (b *Blacklist) Contains(id string) bool {
	if b == nil {
		return false
	}
	_, ok := b.entries[id]
	return ok
}

// Entry returns the entry of an id.
func (b *Blacklist) Entry(id string) (Entry, bool) {
	if b == nil {
		return Entry{}, false
	}
	e, ok := b.entries[id]
	return e, ok
}

// Score returns the score of an id, 0 when absent.
func (b *Blacklist) Score(id string) int {
	e, _ := b.Entry(id)
	return e.Score
}

// ContextOf returns the role an id is ubiquitous in, and false when the
// id is absent.
func (b *Blacklist) ContextOf(id string) (Context, bool) {
	e, ok := b.Entry(id)
	return e.Context, ok
}

// IsUbiquitousID reports whether the id is ubiquitous in the given role.
// Querying with Both matches every entry.
func (b *Blacklist) IsUbiquitousID(id string, ctx Context) bool {
	e, ok := b.Entry(id)
	if !ok {
		return false
	}
	return ctx == Both || e.Context == Both || e.Context == ctx
}

// IsUbiquitous implements graph.Filter. Edges are never ubiquitous.
func (b *Blacklist) IsUbiquitous(g *graph.Graph, h graph.Handle) bool {
	return b.IsUbiquitousIn(g, h, Both)
}

// IsUbiquitousIn reports whether a node is ubiquitous in the given role.
func (b *Blacklist) IsUbiquitousIn(g *graph.Graph, h graph.Handle, ctx Context) bool {
	if b.Len() == 0 || !g.IsNode(h) {
		return false
	}
	return b.IsUbiquitousID(g.ID(h), ctx)
}

// Ubiquitous returns the members of hs ubiquitous in ctx. When every member
// is ubiquitous, the least ubiquitous ones (lowest score) are left out so a
// caller never loses all of its candidates.
func (b *Blacklist) Ubiquitous(g *graph.Graph, hs []graph.Handle, ctx Context) []graph.Handle {
	var ubiques []graph.Handle
	for _, h := range hs {
		if b.IsUbiquitousIn(g, h, ctx) {
			ubiques = append(ubiques, h)
		}
	}
	if len(ubiques) == 0 || len(ubiques) < len(hs) {
		return ubiques
	}

	minScore := b.Score(g.ID(ubiques[0]))
	for _, h := range ubiques[1:] {
		if s := b.Score(g.ID(h)); s < minScore {
			minScore = s
		}
	}
	out := ubiques[:0:0]
	for _, h := range ubiques {
		if b.Score(g.ID(h)) > minScore {
			out = append(out, h)
		}
	}
	return out
}

// NonUbiquitous returns the members of hs that Ubiquitous leaves out,
// preserving order.
func (b *Blacklist) NonUbiquitous(g *graph.Graph, hs []graph.Handle, ctx Context) []graph.Handle {
	ubiques := graph.NewSet(b.Ubiquitous(g, hs, ctx)...)
	out := make([]graph.Handle, 0, len(hs))
	for _, h := range hs {
		if !ubiques.Has(h) {
			out = append(out, h)
		}
	}
	return out
}

// Entries returns every entry ordered by descending score, then id.
func (b *Blacklist) Entries() []Entry {
	if b == nil {
		return nil
	}
	out := make([]Entry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// IDs returns every id in Entries order.
func (b *Blacklist) IDs() []string {
	entries := b.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
