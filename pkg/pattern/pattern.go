package pattern

import (
	"fmt"
	"strings"
)

type entry struct {
	c        Constraint
	slots    []int
	produces int // slot bound by this entry, or -1
}

// Pattern is an ordered list of constraints over named slots. The first
// slot is bound to the start object; every other slot is bound by the
// first constraint that mentions it, which must be generative and name it
// last. Later constraints over bound slots only check.
//
// Patterns are built single-threaded and are safe to share between
// concurrent searches once built.
type Pattern struct {
	startType  string
	labels     []string
	index      map[string]int
	producedAt []int // entry position binding each slot; -1 for the start
	entries    []entry
	symmetric  [][]int
}

// New creates a pattern whose start slot is named firstLabel and holds
// objects of startType.
func New(startType, firstLabel string) *Pattern {
	return &Pattern{
		startType:  startType,
		labels:     []string{firstLabel},
		index:      map[string]int{firstLabel: 0},
		producedAt: []int{-1},
	}
}

// EntryInfo describes one constraint of a pattern.
type EntryInfo struct {
	Constraint Constraint
	Labels     []string
	// Produces is the label bound by the entry, empty for checks.
	Produces string
}

// Add appends a constraint over labels. Every label but the last must be
// bound already. A new last label is bound by the constraint, which must
// then be generative. On error the pattern is unchanged.
func (p *Pattern) Add(c Constraint, labels ...string) error {
	pos := len(p.entries)
	slots, produces, err := p.resolve(pos, c, labels)
	if err != nil {
		return err
	}

	p.entries = append(p.entries, entry{c: c, slots: slots, produces: produces})
	if produces >= 0 {
		p.labels = append(p.labels, labels[len(labels)-1])
		p.index[labels[len(labels)-1]] = produces
		p.producedAt = append(p.producedAt, pos)
	}
	return nil
}

// MustAdd is like Add but panics on error. It is meant for statically
// defined patterns.
func (p *Pattern) MustAdd(c Constraint, labels ...string) *Pattern {
	if err := p.Add(c, labels...); err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) resolve(pos int, c Constraint, labels []string) ([]int, int, error) {
	if err := Validate(c); err != nil {
		return nil, -1, configError(pos, c, labels, err, "malformed constraint")
	}
	if len(labels) != c.Size() {
		return nil, -1, configError(pos, c, labels, nil, "needs %d labels, got %d", c.Size(), len(labels))
	}
	for _, l := range labels {
		if l == "" {
			return nil, -1, configError(pos, c, labels, nil, "empty label")
		}
	}

	slots := make([]int, len(labels))
	last := len(labels) - 1
	for i, l := range labels[:last] {
		slot, ok := p.index[l]
		if !ok {
			return nil, -1, configError(pos, c, labels, nil, "label %q is not bound yet", l)
		}
		slots[i] = slot
	}

	if slot, ok := p.index[labels[last]]; ok {
		slots[last] = slot
		return slots, -1, nil
	}
	if !c.Generative() {
		return nil, -1, configError(pos, c, labels, nil, "cannot bind new label %q with a non-generative constraint", labels[last])
	}
	slots[last] = len(p.labels)
	return slots, slots[last], nil
}

// Insert places a checking constraint at position pos. Every label must be
// bound by an earlier entry. Inserting checks early prunes the search
// without changing its result.
func (p *Pattern) Insert(pos int, c Constraint, labels ...string) error {
	if pos < 0 || pos > len(p.entries) {
		return configError(pos, c, labels, nil, "position out of range [0,%d]", len(p.entries))
	}
	slots, produces, err := p.resolve(pos, c, labels)
	if err != nil {
		return err
	}
	if produces >= 0 {
		return configError(pos, c, labels, nil, "label %q is not bound yet", labels[len(labels)-1])
	}
	for i, s := range slots {
		if p.producedAt[s] >= pos {
			return configError(pos, c, labels, nil, "label %q is bound after position %d", labels[i], pos)
		}
	}

	p.entries = append(p.entries, entry{})
	copy(p.entries[pos+1:], p.entries[pos:])
	p.entries[pos] = entry{c: c, slots: slots, produces: -1}
	for s, at := range p.producedAt {
		if at >= pos {
			p.producedAt[s] = at + 1
		}
	}
	return nil
}

// Append adds every constraint of other, matching slots by label. The
// start label of other must already be bound in p; other labels that p
// already binds are shared. On error p is unchanged.
func (p *Pattern) Append(other *Pattern) error {
	if _, ok := p.index[other.labels[0]]; !ok {
		return configError(len(p.entries), nil, other.labels[:1], nil, "start label %q of appended pattern is not bound", other.labels[0])
	}
	merged := p.Clone()
	for _, e := range other.entries {
		if err := merged.Add(e.c, other.slotLabels(e.slots)...); err != nil {
			return err
		}
	}
	for _, group := range other.symmetric {
		if err := merged.MarkSymmetric(other.slotLabels(group)...); err != nil {
			return err
		}
	}
	*p = *merged
	return nil
}

// MarkSymmetric declares that the labelled slots are interchangeable:
// matches that differ only by permuting their objects are reported once.
func (p *Pattern) MarkSymmetric(labels ...string) error {
	if len(labels) < 2 {
		return configError(len(p.entries), nil, labels, nil, "a symmetric group needs at least two labels")
	}
	group := make([]int, len(labels))
	seen := make(map[int]bool, len(labels))
	for i, l := range labels {
		slot, ok := p.index[l]
		if !ok {
			return configError(len(p.entries), nil, labels, nil, "label %q is not bound", l)
		}
		if seen[slot] {
			return configError(len(p.entries), nil, labels, nil, "label %q repeated", l)
		}
		seen[slot] = true
		group[i] = slot
	}
	p.symmetric = append(p.symmetric, group)
	return nil
}

// Clone returns an independent copy.
func (p *Pattern) Clone() *Pattern {
	c := &Pattern{
		startType:  p.startType,
		labels:     append([]string(nil), p.labels...),
		index:      make(map[string]int, len(p.index)),
		producedAt: append([]int(nil), p.producedAt...),
		entries:    make([]entry, len(p.entries)),
	}
	for k, v := range p.index {
		c.index[k] = v
	}
	for i, e := range p.entries {
		c.entries[i] = entry{c: e.c, slots: append([]int(nil), e.slots...), produces: e.produces}
	}
	for _, g := range p.symmetric {
		c.symmetric = append(c.symmetric, append([]int(nil), g...))
	}
	return c
}

func (p *Pattern) slotLabels(slots []int) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = p.labels[s]
	}
	return out
}

// StartType returns the type of objects the first slot accepts.
func (p *Pattern) StartType() string { return p.startType }

// Size returns the number of slots.
func (p *Pattern) Size() int { return len(p.labels) }

// Labels returns the slot labels in binding order.
func (p *Pattern) Labels() []string { return append([]string(nil), p.labels...) }

// IndexOf returns the slot of a label.
func (p *Pattern) IndexOf(label string) (int, bool) {
	i, ok := p.index[label]
	return i, ok
}

// Label returns the label of a slot.
func (p *Pattern) Label(slot int) string { return p.labels[slot] }

// Len returns the number of constraints.
func (p *Pattern) Len() int { return len(p.entries) }

// Entries describes the constraints in order.
func (p *Pattern) Entries() []EntryInfo {
	out := make([]EntryInfo, len(p.entries))
	for i, e := range p.entries {
		out[i] = EntryInfo{Constraint: e.c, Labels: p.slotLabels(e.slots)}
		if e.produces >= 0 {
			out[i].Produces = p.labels[e.produces]
		}
	}
	return out
}

func (p *Pattern) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pattern(%s %s)", p.startType, p.labels[0])
	for i, e := range p.entries {
		fmt.Fprintf(&b, "\n  %d: %s [%s]", i, e.c, strings.Join(p.slotLabels(e.slots), ", "))
		if e.produces >= 0 {
			fmt.Fprintf(&b, " -> %s", p.labels[e.produces])
		}
	}
	return b.String()
}
