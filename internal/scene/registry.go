package scene

import (
	"fmt"
	"sort"

	"github.com/bft-labs/xnew/pkg/xnew"
)

// Registration holds metadata about a component that scenes can reference.
type Registration struct {
	Name        string
	Description string
	Build       xnew.Component
}

// Registry maps component names to registrations.
type Registry struct {
	entries map[string]Registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Registration)}
}

// Register adds a component. Names must be unique and Build must be set.
func (r *Registry) Register(reg Registration) error {
	if reg.Name == "" || reg.Build == nil {
		return fmt.Errorf("register component %q: name and build are required", reg.Name)
	}
	if _, ok := r.entries[reg.Name]; ok {
		return fmt.Errorf("register component %q: already registered", reg.Name)
	}
	r.entries[reg.Name] = reg
	return nil
}

// Get retrieves a registration by name.
func (r *Registry) Get(name string) (Registration, bool) {
	reg, ok := r.entries[name]
	return reg, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
