package loader

import (
	"errors"
	"fmt"

	"github.com/junioryono/godigen"
)

// ErrUnknownComponent is returned when resolving a component that is not part
// of the loaded graph.
var ErrUnknownComponent = errors.New("component not found in loaded graph")

// Resolver resolves graphs truncated at any component of a loaded graph tree.
type Resolver struct {
	graphs map[godigen.TypeName]*godigen.BindingGraph
}

var _ godigen.GraphResolver = (*Resolver)(nil)

// NewResolver indexes root and all of its subgraphs.
func NewResolver(root *godigen.BindingGraph) *Resolver {
	r := &Resolver{graphs: make(map[godigen.TypeName]*godigen.BindingGraph)}
	root.Walk(func(g *godigen.BindingGraph) {
		if _, ok := r.graphs[g.Component.TypeName]; !ok {
			r.graphs[g.Component.TypeName] = g
		}
	})
	return r
}

// Resolve returns the graph of component as if it were compiled on its own:
// the same bindings and subgraphs, without the factory method of its parent.
func (r *Resolver) Resolve(component *godigen.ComponentDescriptor) (*godigen.BindingGraph, error) {
	g, ok := r.graphs[component.TypeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, component.TypeName)
	}
	truncated := *g
	truncated.FactoryMethod = nil
	return &truncated, nil
}
