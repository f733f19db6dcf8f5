package param

import (
	"fmt"
	"sort"
	"sync"
)

// TypeRegistry maps qualified type paths back to Type values so the
// snapshot codec can resolve recorded paths at decode time. Populate it
// at startup; resolution failure is a typed error, never a crash.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewTypeRegistry constructs a registry holding the given types.
func NewTypeRegistry(types ...*Type) (*TypeRegistry, error) {
	r := &TypeRegistry{types: make(map[string]*Type, len(types))}
	for _, t := range types {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds t under its qualified path, guarding against duplicates.
func (r *TypeRegistry) Register(t *Type) error {
	if t == nil {
		return fmt.Errorf("param: cannot register a nil type")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.types == nil {
		r.types = make(map[string]*Type)
	}
	path := t.Path()
	if _, exists := r.types[path]; exists {
		return fmt.Errorf("param: type path %q already registered", path)
	}
	r.types[path] = t
	return nil
}

// Resolve maps a recorded path back to its type.
func (r *TypeRegistry) Resolve(path string) (*Type, error) {
	if r == nil {
		return nil, &TypeResolutionError{Path: path, What: "type"}
	}
	r.mu.RLock()
	t := r.types[path]
	r.mu.RUnlock()
	if t == nil {
		return nil, &TypeResolutionError{Path: path, What: "type"}
	}
	return t, nil
}

// Paths returns the registered type paths sorted alphabetically.
func (r *TypeRegistry) Paths() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, 0, len(r.types))
	for path := range r.types {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
