package sparse

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cwbudde/algo-rtspectrum/dsp/core"
)

// Kind classifies a solver.
type Kind int

const (
	// KindConvex solvers minimize the L1 norm exactly.
	KindConvex Kind = iota
	// KindGreedy solvers approximate the sparsest solution.
	KindGreedy
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindConvex:
		return "convex"
	case KindGreedy:
		return "greedy"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entry is a registered solver implementation.
type Entry struct {
	// Name is the lookup key, e.g. "bpdn".
	Name string
	// Kind tells convex from greedy solvers.
	Kind Kind
	// Priority orders entries; Default picks the highest.
	Priority int
	// New builds a solver instance.
	New func(opts ...Option) Solver
}

// Registry maps solver names to implementations.
//
// Implementations register themselves via init() functions. Callers resolve
// a name once, at configuration time; a name with no entry is reported as
// core.ErrMissingDependency instead of falling back to another method.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
}

// Global is the default registry holding the solvers of this package.
var Global = &Registry{}

func init() {
	Global.Register(Entry{
		Name:     NameBPDN,
		Kind:     KindConvex,
		Priority: 10,
		New:      func(opts ...Option) Solver { return NewBPDN(opts...) },
	})
	Global.Register(Entry{
		Name:     NameOMP,
		Kind:     KindGreedy,
		Priority: 0,
		New:      func(opts ...Option) Solver { return NewOMP(opts...) },
	})
}

// Register adds or replaces an entry.
func (r *Registry) Register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.Name = strings.ToLower(e.Name)
	for i := range r.entries {
		if r.entries[i].Name == e.Name {
			r.entries[i] = e
			return
		}
	}
	r.entries = append(r.entries, e)
	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].Priority > r.entries[j].Priority
	})
}

// Lookup builds the solver registered under name.
func (r *Registry) Lookup(name string, opts ...Option) (Solver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	for _, e := range r.entries {
		if e.Name == key && e.New != nil {
			return e.New(opts...), nil
		}
	}
	return nil, fmt.Errorf("%w: sparse solver %q is not available (registered: %s)",
		core.ErrMissingDependency, name, strings.Join(r.namesLocked(), ", "))
}

// Default builds the highest-priority convex solver.
func (r *Registry) Default(opts ...Option) (Solver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.Kind == KindConvex && e.New != nil {
			return e.New(opts...), nil
		}
	}
	return nil, fmt.Errorf("%w: no convex L1 solver registered", core.ErrMissingDependency)
}

// Names lists registered solver names by descending priority.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}
