package render

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/junioryono/godigen"
)

// WriteDOT writes the implementation tree in Graphviz DOT format. Nesting is
// drawn with solid edges and inheritance from base implementations with dashed
// edges; base implementations outside the tree are drawn in gray.
func WriteDOT(w io.Writer, impl *godigen.Implementation) error {
	fmt.Fprintln(w, "digraph implementations {")
	fmt.Fprintln(w, "  rankdir=TB;")
	fmt.Fprintln(w, "  node [shape=box];")

	inTree := make(map[uuid.UUID]bool)
	walk(impl, func(i *godigen.Implementation) {
		inTree[i.ID()] = true
	})

	written := make(map[uuid.UUID]bool)
	var node func(i *godigen.Implementation, external bool)
	node = func(i *godigen.Implementation, external bool) {
		if written[i.ID()] {
			return
		}
		written[i.ID()] = true

		fill := "lightblue"
		switch {
		case external:
			fill = "lightgray"
		case i.IsAbstract():
			fill = "lightyellow"
		}
		fmt.Fprintf(w, "  %q [label=\"%s\\n%s\\n%d methods\", fillcolor=%q, style=filled];\n",
			i.ID().String(), i.Name().Simple(), i.Descriptor().Kind, len(i.AllMethods()), fill)

		if superclass, ok := i.SuperclassImplementation(); ok {
			node(superclass, !inTree[superclass.ID()])
			fmt.Fprintf(w, "  %q -> %q [style=dashed, label=\"extends\"];\n",
				i.ID().String(), superclass.ID().String())
		}
	}

	walk(impl, func(i *godigen.Implementation) {
		node(i, false)
		for _, child := range i.Children() {
			node(child, false)
			fmt.Fprintf(w, "  %q -> %q;\n", i.ID().String(), child.ID().String())
		}
	})

	_, err := fmt.Fprintln(w, "}")
	return err
}
