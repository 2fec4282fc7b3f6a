package task

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// ModuleFunc is a consumer task module. It receives the capability
// object and typically builds an orchestration map and calls Start.
type ModuleFunc func(ctx context.Context, cap *Capability) error

// Registry maps module names to their implementations
type Registry struct {
	mu      sync.RWMutex
	modules map[string]ModuleFunc
}

// NewRegistry creates an empty module registry
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]ModuleFunc),
	}
}

// Register adds a module under name, replacing any previous registration
func (r *Registry) Register(name string, fn ModuleFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[name] = fn
}

// Lookup returns the module registered under name
func (r *Registry) Lookup(name string) (ModuleFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, name)
	}
	return fn, nil
}

// Names returns the registered module names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultRegistry backs the package-level registration surface used by
// consumers that register modules from init functions.
var defaultRegistry = NewRegistry()

// RegisterModule registers a module in the default registry
func RegisterModule(name string, fn ModuleFunc) {
	defaultRegistry.Register(name, fn)
}

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// defaultBindings holds the process-wide capability bindings injected
// into every capability object.
var defaultBindings = struct {
	mu sync.RWMutex
	m  map[string]BindingFunc
}{m: make(map[string]BindingFunc)}

// RegisterBinding registers an external collaborator under name
func RegisterBinding(name string, fn BindingFunc) {
	defaultBindings.mu.Lock()
	defer defaultBindings.mu.Unlock()
	defaultBindings.m[name] = fn
}

// Bindings returns a copy of the registered capability bindings
func Bindings() map[string]BindingFunc {
	defaultBindings.mu.RLock()
	defer defaultBindings.mu.RUnlock()

	out := make(map[string]BindingFunc, len(defaultBindings.m))
	for name, fn := range defaultBindings.m {
		out[name] = fn
	}
	return out
}
