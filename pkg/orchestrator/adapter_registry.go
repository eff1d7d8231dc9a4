package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-modelgen/internal/walker"
	"github.com/goliatone/go-modelgen/pkg/config"
	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
	"github.com/goliatone/go-modelgen/pkg/model"
	"github.com/goliatone/go-modelgen/pkg/openapi"
	"github.com/goliatone/go-modelgen/pkg/schema"
)

// Run carries everything a mode needs for one generation run.
type Run struct {
	Config   config.Config
	Document schema.Document
	Value    jsonvalue.Value
	Location string
	Walker   *walker.Walker
	Parser   *openapi.Parser
	Logger   *zap.Logger
}

// ModeAdapter turns a decoded root document into records.
type ModeAdapter interface {
	Name() string
	// Detect reports whether the payload belongs to this mode. Built-in
	// adapters are mutually exclusive.
	Detect(value jsonvalue.Value) bool
	Models(ctx context.Context, run Run) (model.Result, error)
}

// ModeRegistry stores mode adapters by name.
type ModeRegistry struct {
	mu       sync.RWMutex
	adapters map[string]ModeAdapter
}

// NewModeRegistry creates an empty mode registry.
func NewModeRegistry() *ModeRegistry {
	return &ModeRegistry{
		adapters: make(map[string]ModeAdapter),
	}
}

// DefaultModes returns a registry holding the instance, schema and openapi
// adapters.
func DefaultModes() *ModeRegistry {
	registry := NewModeRegistry()
	registry.MustRegister(InstanceMode{})
	registry.MustRegister(SchemaMode{})
	registry.MustRegister(OpenAPIMode{})
	return registry
}

// Register adds an adapter by its Name(). Duplicate names return an error.
func (r *ModeRegistry) Register(adapter ModeAdapter) error {
	if adapter == nil {
		return fmt.Errorf("orchestrator: mode adapter is required")
	}
	name := normalizeModeName(adapter.Name())
	if name == "" {
		return fmt.Errorf("orchestrator: mode name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("orchestrator: mode %q already registered", name)
	}
	r.adapters[name] = adapter
	return nil
}

// MustRegister panics on registration failure.
func (r *ModeRegistry) MustRegister(adapter ModeAdapter) {
	if err := r.Register(adapter); err != nil {
		panic(err)
	}
}

// Get retrieves an adapter by name.
func (r *ModeRegistry) Get(name string) (ModeAdapter, error) {
	key := normalizeModeName(name)
	if key == "" {
		return nil, fmt.Errorf("orchestrator: mode name is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[key]
	if !ok {
		return nil, fmt.Errorf("orchestrator: mode %q not found", key)
	}
	return adapter, nil
}

// List returns the sorted adapter names.
func (r *ModeRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether an adapter is registered.
func (r *ModeRegistry) Has(name string) bool {
	key := normalizeModeName(name)
	if key == "" {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.adapters[key]
	return ok
}

// Detect returns every adapter that claims the payload, sorted by name.
func (r *ModeRegistry) Detect(value jsonvalue.Value) []ModeAdapter {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)

	var matches []ModeAdapter
	for _, name := range names {
		if adapter := r.adapters[name]; adapter != nil && adapter.Detect(value) {
			matches = append(matches, adapter)
		}
	}
	return matches
}

func normalizeModeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
