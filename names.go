package godigen

import (
	"strconv"
	"strings"
)

// DefaultNamePrefix is prepended to the simple names of generated top-level types.
const DefaultNamePrefix = "Godigen"

// ComponentName returns the name of the generated top-level implementation of
// component.
func ComponentName(prefix string, component TypeName) TypeName {
	return TypeName{
		Package: component.Package,
		Name:    prefix + strings.ReplaceAll(component.Name, ".", "_"),
	}
}

// subcomponentNames assigns every subcomponent in a graph tree a simple name
// that is unique across the tree.
type subcomponentNames struct {
	names map[TypeName]string
}

func newSubcomponentNames(graph *BindingGraph) *subcomponentNames {
	n := &subcomponentNames{names: make(map[TypeName]string)}
	used := make(map[string]int)
	graph.Walk(func(g *BindingGraph) {
		if g == graph {
			return
		}
		t := g.Component.TypeName
		if _, ok := n.names[t]; ok {
			return
		}
		base := t.Simple() + "Impl"
		used[base]++
		name := base
		if count := used[base]; count > 1 {
			name = base + strconv.Itoa(count)
		}
		n.names[t] = name
	})
	return n
}

func (n *subcomponentNames) get(descriptor *ComponentDescriptor) string {
	if name, ok := n.names[descriptor.TypeName]; ok {
		return name
	}
	return descriptor.TypeName.Simple() + "Impl"
}
