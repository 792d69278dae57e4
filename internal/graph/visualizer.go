package graph

import (
	"fmt"
	"io"
	"strings"

	"github.com/junioryono/godigen"
)

// Visualizer provides methods to visualize the dependency graph
type Visualizer struct {
	graph *DependencyGraph
}

// NewVisualizer creates a new graph visualizer
func NewVisualizer(graph *DependencyGraph) *Visualizer {
	return &Visualizer{graph: graph}
}

// WriteDOT writes the graph in Graphviz DOT format
func (v *Visualizer) WriteDOT(w io.Writer) error {
	fmt.Fprintln(w, "digraph bindings {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box];")

	keys := v.graph.sortedKeys()
	nodeIDs := make(map[godigen.Key]string, len(keys))
	for i, key := range keys {
		node := v.graph.nodes[key]
		nodeID := fmt.Sprintf("n%d", i)
		nodeIDs[key] = nodeID

		fmt.Fprintf(w, "  %s [label=\"%s\", fillcolor=\"%s\", style=filled];\n",
			nodeID, v.formatNodeLabel(node), v.getNodeColor(node))
	}

	for _, from := range keys {
		for _, to := range v.graph.edges[from] {
			fmt.Fprintf(w, "  %s -> %s;\n", nodeIDs[from], nodeIDs[to])
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

// WriteText writes the bindings grouped by depth, leaves first.
func (v *Visualizer) WriteText(w io.Writer) error {
	fmt.Fprintln(w, "Binding Graph:")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w)

	sorted, err := v.graph.TopologicalSort()
	if err != nil {
		return err
	}

	v.graph.CalculateDepths()
	depthGroups := make(map[int][]*Node)
	maxDepth := 0
	for _, node := range sorted {
		depthGroups[node.Depth] = append(depthGroups[node.Depth], node)
		maxDepth = max(maxDepth, node.Depth)
	}

	for depth := 0; depth <= maxDepth; depth++ {
		nodes, ok := depthGroups[depth]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "Level %d:\n", depth)
		fmt.Fprintln(w, "--------")
		for _, node := range nodes {
			v.writeNodeDetails(w, node, "  ")
		}
		fmt.Fprintln(w)
	}

	v.writeStatistics(w)
	return nil
}

// formatNodeLabel creates a label for a node
func (v *Visualizer) formatNodeLabel(node *Node) string {
	label := node.Key.Type.Simple()
	if node.Key.Qualifier != "" {
		label = fmt.Sprintf("%s\\n[%s]", label, node.Key.Qualifier)
	}
	return fmt.Sprintf("%s\\nIn:%d Out:%d", label, node.InDegree, node.OutDegree)
}

// getNodeColor determines the color for a node based on its binding
func (v *Visualizer) getNodeColor(node *Node) string {
	if node.Binding == nil {
		return "lightgray" // owned by an ancestor or missing
	}
	switch {
	case node.Binding.Modifiable:
		return "lightgreen"
	case node.Binding.Kind == godigen.Production:
		return "lightyellow"
	default:
		return "lightblue"
	}
}

// writeNodeDetails writes detailed information about a node
func (v *Visualizer) writeNodeDetails(w io.Writer, node *Node, indent string) {
	fmt.Fprintf(w, "%s%s\n", indent, node.Key)

	if node.Binding != nil {
		fmt.Fprintf(w, "%s  Kind: %s\n", indent, node.Binding.Kind)
		if node.Binding.Modifiable {
			fmt.Fprintf(w, "%s  Modifiable: true\n", indent)
		}
	} else {
		fmt.Fprintf(w, "%s  Kind: inherited\n", indent)
	}

	if len(node.Dependencies) > 0 {
		fmt.Fprintf(w, "%s  Dependencies: [%s]\n", indent, joinKeys(node.Dependencies))
	}
	if len(node.Dependents) > 0 {
		fmt.Fprintf(w, "%s  Dependents: [%s]\n", indent, joinKeys(node.Dependents))
	}
}

// writeStatistics writes graph statistics
func (v *Visualizer) writeStatistics(w io.Writer) {
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintln(w, "-----------")
	fmt.Fprintf(w, "  Total nodes: %d\n", v.graph.Size())
	fmt.Fprintf(w, "  Total edges: %d\n", v.countEdges())
	fmt.Fprintf(w, "  Entry nodes (no dependents): %d\n", len(v.graph.GetRoots()))
	fmt.Fprintf(w, "  Leaf nodes (no dependencies): %d\n", len(v.graph.GetLeaves()))

	var production int
	for _, node := range v.graph.nodes {
		if node.Binding != nil && node.Binding.Kind == godigen.Production {
			production++
		}
	}
	fmt.Fprintf(w, "  Production bindings: %d\n", production)
}

// countEdges counts the total number of edges in the graph
func (v *Visualizer) countEdges() int {
	count := 0
	for _, edges := range v.graph.edges {
		count += len(edges)
	}
	return count
}

func joinKeys(keys []godigen.Key) string {
	s := make([]string, len(keys))
	for i, k := range keys {
		s[i] = k.String()
	}
	return strings.Join(s, ", ")
}
