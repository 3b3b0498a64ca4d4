// Package compute implements the widget computation strategies and the
// registry that dispatches widget types to them.
package compute

import (
	"sort"

	"go.trai.ch/facet/internal/core/ports"
)

// Registry maps widget type identifiers to their computer implementations.
// It is populated once at engine construction; adding a widget type means
// registering a new implementation, not branching inside the engine.
type Registry struct {
	computers map[string]ports.Computer
}

// NewRegistry creates a registry holding the given computers, keyed by
// their reported type. A later computer with a duplicate type replaces the
// earlier one.
func NewRegistry(computers ...ports.Computer) *Registry {
	r := &Registry{computers: make(map[string]ports.Computer, len(computers))}
	for _, c := range computers {
		r.computers[c.Type()] = c
	}
	return r
}

// Lookup returns the computer registered for the given widget type.
func (r *Registry) Lookup(widgetType string) (ports.Computer, bool) {
	c, ok := r.computers[widgetType]
	return c, ok
}

// Types returns the registered type identifiers, sorted lexically. The
// widget definition loader uses this to reject unknown types at load time.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.computers))
	for t := range r.computers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
