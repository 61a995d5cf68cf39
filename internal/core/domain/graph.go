// Package domain contains the core domain model: rules, requirements, the
// dependency graph, and the execution plan derived from it.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the dependency graph produced by resolution. Nodes are keyed by
// requirement identity, so recipe-identical tasks occupy a single node.
// Adjacency lists keep insertion order with duplicates dropped.
type Graph struct {
	nodes map[InternedString]*Requirement
	adj   map[InternedString][]InternedString
	root  InternedString
}

// Edge is a dependency arc from a requirement to one of its prerequisites.
type Edge struct {
	From *Requirement
	To   *Requirement
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[InternedString]*Requirement),
		adj:   make(map[InternedString][]InternedString),
	}
}

// Add inserts r unless a requirement with the same identity is already
// present, in which case the existing node is kept. The canonical instance is
// returned either way.
func (g *Graph) Add(r *Requirement) *Requirement {
	if existing, ok := g.nodes[r.key]; ok {
		return existing
	}
	g.nodes[r.key] = r
	return r
}

// AddEdge records that from depends on to. Both keys must belong to
// requirements already added. Duplicate edges are dropped.
func (g *Graph) AddEdge(from, to InternedString) {
	for _, dep := range g.adj[from] {
		if dep == to {
			return
		}
	}
	g.adj[from] = append(g.adj[from], to)
}

// SetRoot marks the requirement resolution started from.
func (g *Graph) SetRoot(key InternedString) {
	g.root = key
}

// Root returns the requirement resolution started from, or nil if unset.
func (g *Graph) Root() *Requirement {
	return g.nodes[g.root]
}

// Node returns the requirement with the given identity, or nil.
func (g *Graph) Node(key InternedString) *Requirement {
	return g.nodes[key]
}

// Prerequisites returns the direct prerequisites of the given requirement in
// insertion order.
func (g *Graph) Prerequisites(key InternedString) []*Requirement {
	deps := g.adj[key]
	out := make([]*Requirement, 0, len(deps))
	for _, dep := range deps {
		out = append(out, g.nodes[dep])
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Requirements returns an iterator over all nodes, ordered by identity key so
// traversal is deterministic.
func (g *Graph) Requirements() iter.Seq[*Requirement] {
	return func(yield func(*Requirement) bool) {
		for _, key := range g.sortedKeys() {
			if !yield(g.nodes[key]) {
				return
			}
		}
	}
}

// Edges returns every dependency arc, ordered by the dependent's identity key
// and then by adjacency insertion order. The ordering is stable so callers
// can render or diff the graph.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, key := range g.sortedKeys() {
		for _, dep := range g.adj[key] {
			edges = append(edges, Edge{From: g.nodes[key], To: g.nodes[dep]})
		}
	}
	return edges
}

// Validate checks that the graph contains no cycles. Resolution consumes
// rules destructively, so a constructed graph should never fail this; it
// backstops the invariant before any recipe runs.
func (g *Graph) Validate() error {
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		for _, dep := range g.adj[u] {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		return nil
	}

	// Sorted start order keeps cycle reports deterministic across
	// disconnected components.
	for _, key := range g.sortedKeys() {
		if visited[key] == 0 {
			if err := visit(key); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	cyclePath := ""
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += g.displayName(path[i]) + " -> "
	}
	cyclePath += g.displayName(dep)
	return zerr.With(ErrCycleDetected, "cycle", cyclePath)
}

func (g *Graph) displayName(key InternedString) string {
	if n, ok := g.nodes[key]; ok {
		return n.Target
	}
	return key.String()
}

func (g *Graph) sortedKeys() []InternedString {
	keys := make([]InternedString, 0, len(g.nodes))
	for key := range g.nodes {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b InternedString) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}
