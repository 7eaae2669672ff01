// SPDX-License-Identifier: MPL-2.0

// Package dag orders the nodes of a directed graph. modgraph uses it to list
// modules so that every module follows the modules it reads. Readability may
// be cyclic, so besides a strict topological sort the package groups cycles
// into strongly connected components.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle contains the nodes that form the cycle (not necessarily all of them,
		// but enough to identify the problem).
		Cycle []string
	}

	// Graph is a directed graph for topological sorting.
	// Nodes are identified by string keys. Edges represent "comes before"
	// relationships: an edge from A to B means A is listed before B.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors (nodes that depend on it).
		adjacency map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to, meaning "from" comes before "to".
// Both nodes are implicitly added if they don't exist.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// TopologicalSort returns a valid order using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle.
// The returned order is deterministic: nodes at the same topological level
// appear in the order they were first added to the graph.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	// Compute in-degrees.
	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	// Seed the queue with nodes that have no incoming edges, in insertion order.
	queue := make([]string, 0)
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		// Remaining nodes with non-zero in-degree form the cycle.
		var cycleNodes []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				cycleNodes = append(cycleNodes, node)
			}
		}
		return nil, &CycleError{Cycle: cycleNodes}
	}

	return result, nil
}

// Components returns the strongly connected components of the graph in
// topological order of the condensed graph, using Tarjan's algorithm. A
// component with more than one node, or a single node with a self edge, is a
// cycle. Nodes within a component keep insertion order and the result is
// deterministic.
func (g *Graph) Components() [][]string {
	t := &tarjan{
		g:       g,
		index:   make(map[string]int, len(g.nodes)),
		lowLink: make(map[string]int, len(g.nodes)),
		onStack: make(map[string]bool, len(g.nodes)),
	}
	// Tarjan emits components in reverse topological order.
	for i := len(g.nodes) - 1; i >= 0; i-- {
		if _, seen := t.index[g.nodes[i]]; !seen {
			t.visit(g.nodes[i])
		}
	}
	slices.Reverse(t.components)

	position := make(map[string]int, len(g.nodes))
	for i, node := range g.nodes {
		position[node] = i
	}
	for _, comp := range t.components {
		slices.SortFunc(comp, func(a, b string) int { return position[a] - position[b] })
	}
	return t.components
}

// IsCycle reports whether comp, a result of Components, is a cycle.
func (g *Graph) IsCycle(comp []string) bool {
	if len(comp) > 1 {
		return true
	}
	return len(comp) == 1 && slices.Contains(g.adjacency[comp[0]], comp[0])
}

type tarjan struct {
	g          *Graph
	counter    int
	index      map[string]int
	lowLink    map[string]int
	onStack    map[string]bool
	stack      []string
	components [][]string
}

func (t *tarjan) visit(node string) {
	t.index[node] = t.counter
	t.lowLink[node] = t.counter
	t.counter++
	t.stack = append(t.stack, node)
	t.onStack[node] = true

	for _, next := range t.g.adjacency[node] {
		if _, seen := t.index[next]; !seen {
			t.visit(next)
			t.lowLink[node] = min(t.lowLink[node], t.lowLink[next])
		} else if t.onStack[next] {
			t.lowLink[node] = min(t.lowLink[node], t.index[next])
		}
	}

	if t.lowLink[node] != t.index[node] {
		return
	}
	var comp []string
	for {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[top] = false
		comp = append(comp, top)
		if top == node {
			break
		}
	}
	t.components = append(t.components, comp)
}
