package adapter

import (
	"fmt"
	"sync"
)

// Registry holds the registered database adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[DatabaseType]DatabaseAdapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[DatabaseType]DatabaseAdapter),
	}
}

// Register adds an adapter to the registry. Registering the same type twice
// panics; that is always a programming error in an init func.
func (r *Registry) Register(a DatabaseAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[a.Type()]; exists {
		panic(fmt.Sprintf("adapter already registered for type %q", a.Type()))
	}
	r.adapters[a.Type()] = a
}

// Get returns the adapter for the given type.
func (r *Registry) Get(dbType DatabaseType) (DatabaseAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[dbType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAdapterNotFound, dbType)
	}
	return a, nil
}

// GetByName resolves a type name or alias and returns its adapter.
func (r *Registry) GetByName(name string) (DatabaseAdapter, error) {
	dbType, ok := ParseType(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown engine %q", ErrAdapterNotFound, name)
	}
	return r.Get(dbType)
}

// Types returns the registered types in unspecified order.
func (r *Registry) Types() []DatabaseType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]DatabaseType, 0, len(r.adapters))
	for t := range r.adapters {
		types = append(types, t)
	}
	return types
}

// defaultRegistry is the registry adapters register into from init funcs.
var defaultRegistry = NewRegistry()

// Register adds an adapter to the default registry.
func Register(a DatabaseAdapter) {
	defaultRegistry.Register(a)
}

// Get returns an adapter from the default registry.
func Get(dbType DatabaseType) (DatabaseAdapter, error) {
	return defaultRegistry.Get(dbType)
}

// GetByName resolves a name or alias against the default registry.
func GetByName(name string) (DatabaseAdapter, error) {
	return defaultRegistry.GetByName(name)
}

// Default returns the default registry.
func Default() *Registry {
	return defaultRegistry
}
