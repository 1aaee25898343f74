package pattern

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownPattern is returned by Registry.Get for unregistered names.
var ErrUnknownPattern = errors.New("unknown pattern")

// Registry is a named set of patterns owned by its caller.
type Registry struct {
	mu       sync.RWMutex
	patterns map[string]*Pattern
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{patterns: make(map[string]*Pattern)}
}

// Register adds a pattern under a unique, non-empty name.
func (r *Registry) Register(name string, p *Pattern) error {
	if name == "" {
		return fmt.Errorf("%w: empty pattern name", ErrConfiguration)
	}
	if p == nil {
		return fmt.Errorf("%w: nil pattern %q", ErrConfiguration, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.patterns[name]; dup {
		return fmt.Errorf("%w: pattern %q already registered", ErrConfiguration, name)
	}
	r.patterns[name] = p
	return nil
}

// Get returns the pattern registered under name.
func (r *Registry) Get(name string) (*Pattern, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patterns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return p, nil
}

// MustGet is like Get but panics for unknown names.
func (r *Registry) MustGet(name string) *Pattern {
	p, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.patterns))
	for name := range r.patterns {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered patterns.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.patterns)
}
