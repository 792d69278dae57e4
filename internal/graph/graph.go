package graph

import (
	"fmt"
	"slices"

	"github.com/junioryono/godigen"
)

// DependencyGraph manages the dependency relationships between the bindings
// of one component. It provides cycle detection and a deterministic
// initialization order.
type DependencyGraph struct {
	nodes map[godigen.Key]*Node
	edges map[godigen.Key][]godigen.Key // adjacency list, binding -> dependencies

	// Cache
	sortedNodes      []*Node
	sortedNodesDirty bool
}

// Node represents a key in the dependency graph
type Node struct {
	Key godigen.Key

	// Binding is nil for keys that are only referenced as dependencies.
	Binding *godigen.Binding

	// Graph metadata
	InDegree  int // number of dependents
	OutDegree int // number of dependencies
	Depth     int // depth in dependency tree

	// Dependency information
	Dependencies []godigen.Key // keys this node depends on
	Dependents   []godigen.Key // keys that depend on this node
}

// NewDependencyGraph creates a new dependency graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes:            make(map[godigen.Key]*Node),
		edges:            make(map[godigen.Key][]godigen.Key),
		sortedNodesDirty: true,
	}
}

// FromBindings builds the graph of the bindings owned by a component graph.
// Dependencies on bindings the graph does not own become nodes without a
// binding.
func FromBindings(bindings []*godigen.Binding) (*DependencyGraph, error) {
	g := NewDependencyGraph()
	for _, b := range bindings {
		if err := g.AddBinding(b); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddBinding adds a binding to the graph. A binding that closes a cycle is
// rejected with a CircularDependencyError and the graph is left unchanged.
func (g *DependencyGraph) AddBinding(binding *godigen.Binding) error {
	if binding == nil {
		return fmt.Errorf("binding cannot be nil")
	}

	key := binding.Key
	previous, existed := g.nodes[key]
	var (
		previousEdges   []godigen.Key
		previousBinding *godigen.Binding
	)
	if existed {
		previousEdges = g.edges[key]
		previousBinding = previous.Binding
	}

	node := g.ensureNode(key)
	node.Binding = binding

	added := []godigen.Key{}
	for _, dep := range binding.Dependencies {
		if _, ok := g.nodes[dep]; !ok {
			added = append(added, dep)
		}
		g.ensureNode(dep)
	}
	g.edges[key] = slices.Clone(binding.Dependencies)
	g.sortedNodesDirty = true

	if path := g.findCyclePath(key); path != nil {
		// Roll back
		if existed {
			previous.Binding = previousBinding
			g.edges[key] = previousEdges
		} else {
			delete(g.nodes, key)
			delete(g.edges, key)
		}
		for _, dep := range added {
			delete(g.nodes, dep)
		}
		g.updateDegrees()
		return CircularDependencyError{Node: key, Path: path}
	}

	g.updateDegrees()
	return nil
}

func (g *DependencyGraph) ensureNode(key godigen.Key) *Node {
	node, ok := g.nodes[key]
	if !ok {
		node = &Node{Key: key}
		g.nodes[key] = node
	}
	return node
}

// updateDegrees recalculates in/out degrees for all nodes
func (g *DependencyGraph) updateDegrees() {
	for _, node := range g.nodes {
		node.InDegree = 0
		node.OutDegree = 0
		node.Dependencies = nil
		node.Dependents = nil
	}

	for _, from := range g.sortedKeys() {
		tos := g.edges[from]
		fromNode := g.nodes[from]
		fromNode.OutDegree = len(tos)
		fromNode.Dependencies = slices.Clone(tos)
		for _, to := range tos {
			if toNode, ok := g.nodes[to]; ok {
				toNode.InDegree++
				toNode.Dependents = append(toNode.Dependents, from)
			}
		}
	}
}

// sortedKeys returns every key in the graph in Key order.
func (g *DependencyGraph) sortedKeys() []godigen.Key {
	keys := make([]godigen.Key, 0, len(g.nodes))
	for k := range g.nodes {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, godigen.Key.Compare)
	return keys
}

// TopologicalSort returns nodes in dependency order, dependencies first. Among
// nodes that are ready at the same time, the smaller key comes first, so the
// order is the same on every run.
func (g *DependencyGraph) TopologicalSort() ([]*Node, error) {
	if !g.sortedNodesDirty && g.sortedNodes != nil {
		return slices.Clone(g.sortedNodes), nil
	}

	pending := make(map[godigen.Key]int, len(g.nodes))
	var ready []godigen.Key
	for _, key := range g.sortedKeys() {
		pending[key] = len(g.edges[key])
		if pending[key] == 0 {
			ready = append(ready, key)
		}
	}

	result := make([]*Node, 0, len(g.nodes))
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]

		node := g.nodes[current]
		result = append(result, node)

		for _, dependent := range node.Dependents {
			pending[dependent]--
			if pending[dependent] == 0 {
				i, _ := slices.BinarySearchFunc(ready, dependent, godigen.Key.Compare)
				ready = slices.Insert(ready, i, dependent)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, fmt.Errorf("circular dependency detected: graph contains %d nodes but only %d could be sorted",
			len(g.nodes), len(result))
	}

	g.sortedNodes = result
	g.sortedNodesDirty = false
	return slices.Clone(result), nil
}

// InitializationOrder returns key and everything it transitively depends on,
// dependencies first. Dependencies are visited in declaration order.
func (g *DependencyGraph) InitializationOrder(key godigen.Key) ([]godigen.Key, error) {
	var (
		order    []godigen.Key
		visited  = make(map[godigen.Key]bool)
		visiting = make(map[godigen.Key]bool)
		stack    []godigen.Key
	)

	var visit func(k godigen.Key) error
	visit = func(k godigen.Key) error {
		if visited[k] {
			return nil
		}
		if visiting[k] {
			start := slices.Index(stack, k)
			return CircularDependencyError{Node: k, Path: slices.Clone(stack[start:])}
		}
		visiting[k] = true
		stack = append(stack, k)
		for _, dep := range g.edges[k] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		visiting[k] = false
		visited[k] = true
		order = append(order, k)
		return nil
	}

	if err := visit(key); err != nil {
		return nil, err
	}
	return order, nil
}

// DetectCycles checks if the graph contains any cycles
func (g *DependencyGraph) DetectCycles() error {
	for _, key := range g.sortedKeys() {
		if path := g.findCyclePath(key); path != nil {
			return CircularDependencyError{Node: key, Path: path}
		}
	}
	return nil
}

// findCyclePath returns the path of a cycle through start, starting at start,
// or nil when start is not on a cycle.
func (g *DependencyGraph) findCyclePath(start godigen.Key) []godigen.Key {
	visited := make(map[godigen.Key]bool)
	var path []godigen.Key

	var walk func(current godigen.Key) bool
	walk = func(current godigen.Key) bool {
		path = append(path, current)
		for _, next := range g.edges[current] {
			if next == start {
				return true
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			if walk(next) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	if walk(start) {
		return path
	}
	return nil
}

// GetDependencies returns the direct dependencies of a key
func (g *DependencyGraph) GetDependencies(key godigen.Key) []godigen.Key {
	if node, ok := g.nodes[key]; ok {
		return slices.Clone(node.Dependencies)
	}
	return nil
}

// GetDependents returns the keys that depend on the given key
func (g *DependencyGraph) GetDependents(key godigen.Key) []godigen.Key {
	if node, ok := g.nodes[key]; ok {
		return slices.Clone(node.Dependents)
	}
	return nil
}

// GetNode returns the node for a given key
func (g *DependencyGraph) GetNode(key godigen.Key) *Node {
	return g.nodes[key]
}

// HasNode checks if a node exists in the graph
func (g *DependencyGraph) HasNode(key godigen.Key) bool {
	_, ok := g.nodes[key]
	return ok
}

// Size returns the number of nodes in the graph
func (g *DependencyGraph) Size() int {
	return len(g.nodes)
}

// IsAcyclic returns true if the graph has no cycles
func (g *DependencyGraph) IsAcyclic() bool {
	return g.DetectCycles() == nil
}

// GetRoots returns all nodes no other node depends on, in Key order.
func (g *DependencyGraph) GetRoots() []*Node {
	var roots []*Node
	for _, key := range g.sortedKeys() {
		if node := g.nodes[key]; node.InDegree == 0 {
			roots = append(roots, node)
		}
	}
	return roots
}

// GetLeaves returns all nodes with no dependencies, in Key order.
func (g *DependencyGraph) GetLeaves() []*Node {
	var leaves []*Node
	for _, key := range g.sortedKeys() {
		if node := g.nodes[key]; node.OutDegree == 0 {
			leaves = append(leaves, node)
		}
	}
	return leaves
}

// CalculateDepths assigns depth levels to nodes: leaves have depth 0 and every
// other node is one deeper than its deepest dependency. Nodes on cycles keep
// depth -1.
func (g *DependencyGraph) CalculateDepths() {
	for _, node := range g.nodes {
		node.Depth = -1
	}

	sorted, err := g.TopologicalSort()
	if err != nil {
		return
	}
	for _, node := range sorted {
		node.Depth = 0
		for _, dep := range node.Dependencies {
			if d := g.nodes[dep].Depth + 1; d > node.Depth {
				node.Depth = d
			}
		}
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	return fmt.Sprintf("Node{%s, in:%d, out:%d, depth:%d}",
		n.Key.String(), n.InDegree, n.OutDegree, n.Depth)
}
