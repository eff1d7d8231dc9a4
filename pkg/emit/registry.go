package emit

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores strategies by name.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register adds a strategy by its Name(). Duplicate names return an error.
func (r *Registry) Register(strategy Strategy) error {
	if strategy == nil {
		return fmt.Errorf("emit: strategy is required")
	}
	name := strategy.Name()
	if name == "" {
		return fmt.Errorf("emit: strategy name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.strategies[name]; exists {
		return fmt.Errorf("emit: strategy %q already registered", name)
	}
	r.strategies[name] = strategy
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(strategy Strategy) {
	if err := r.Register(strategy); err != nil {
		panic(err)
	}
}

// Get retrieves a strategy by name.
func (r *Registry) Get(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	strategy, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("emit: strategy %q not found", name)
	}
	return strategy, nil
}

// MustGet panics if the strategy is missing.
func (r *Registry) MustGet(name string) Strategy {
	strategy, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return strategy
}

// List returns the sorted strategy names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a strategy is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.strategies[name]
	return ok
}
