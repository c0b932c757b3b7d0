package suite

import (
	"fmt"
	"sort"
	"sync"
)

// Builder populates a fresh Suite when its file is first loaded in a run.
// Anything the builder does beyond registering tests is the unit's
// module-scope side effect; the loader's run cache guarantees it executes
// at most once per run.
type Builder func(*Suite) error

// Registry maps qualified import identifiers to suite builders. Identifiers
// are dot-joined: packageName[.subdir...].fileStem inside a package, or the
// bare file stem outside one.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Default is the process registry that package-level Register feeds.
// Suite files register themselves here from init.
var Default = NewRegistry()

// Register adds a builder under an import identifier. Registering the same
// identifier twice panics: two files cannot share one identifier.
func (r *Registry) Register(importID string, build Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.builders[importID]; dup {
		panic(fmt.Sprintf("suite: duplicate registration for %q", importID))
	}
	r.builders[importID] = build
}

// Register adds a builder to the default registry.
func Register(importID string, build Builder) {
	Default.Register(importID, build)
}

// Build executes the builder registered under importID against a fresh
// Suite. Callers cache the result per run; Build itself never caches.
func (r *Registry) Build(importID string) (*Suite, error) {
	r.mu.RLock()
	build, ok := r.builders[importID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no suite registered for import id %q", importID)
	}
	s := &Suite{}
	if err := build(s); err != nil {
		return nil, err
	}
	return s, nil
}

// IDs returns the registered import identifiers, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.builders))
	for id := range r.builders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
