// Package graph implements a small generic directed graph with cycle
// detection and multi-source forward reachability, shared by the
// configuration-inheritance resolver (cycle detection over parent links)
// and the change analyzer (reachability over header-include edges).
package graph

import (
	"cmp"
	"fmt"
	"sort"
	"strings"
)

// OrderedLess is a ready-made less func for any cmp.Ordered node type
// (string, the common case for paths and configuration names).
func OrderedLess[T cmp.Ordered](a, b T) bool {
	return a < b
}

// Graph is a directed graph over any ordered, comparable node type.
// The zero value is not usable; use New.
type Graph[T comparable] struct {
	adj map[T]map[T]struct{} // node -> set of nodes it has an edge to
}

// New returns an empty graph.
func New[T comparable]() *Graph[T] {
	return &Graph[T]{adj: make(map[T]map[T]struct{})}
}

// AddNode inserts n with no outgoing edges if it isn't already present.
// Idempotent.
func (g *Graph[T]) AddNode(n T) {
	if _, ok := g.adj[n]; !ok {
		g.adj[n] = make(map[T]struct{})
	}
}

// AddEdge adds a directed edge u -> v, creating both nodes if necessary.
// Adding the same edge twice has no additional effect (set semantics).
func (g *Graph[T]) AddEdge(u, v T) {
	g.AddNode(u)
	g.AddNode(v)
	g.adj[u][v] = struct{}{}
}

// Nodes returns every node in the graph, in no particular order.
func (g *Graph[T]) Nodes() []T {
	out := make([]T, 0, len(g.adj))
	for n := range g.adj {
		out = append(out, n)
	}
	return out
}

// HasNode reports whether n is a key of the graph.
func (g *Graph[T]) HasNode(n T) bool {
	_, ok := g.adj[n]
	return ok
}

// Neighbors returns the set of nodes u has a direct edge to, nil if u is
// not a key of the graph.
func (g *Graph[T]) Neighbors(u T) []T {
	neighbors, ok := g.adj[u]
	if !ok {
		return nil
	}
	out := make([]T, 0, len(neighbors))
	for v := range neighbors {
		out = append(out, v)
	}
	return out
}

// ReachableFrom returns every node reachable by forward traversal from any
// of seeds, including the seeds themselves even when a seed has no
// outgoing edges or isn't a key of the graph at all.
func (g *Graph[T]) ReachableFrom(seeds []T) map[T]struct{} {
	visited := make(map[T]struct{}, len(seeds))
	queue := make([]T, 0, len(seeds))

	for _, s := range seeds {
		if _, seen := visited[s]; !seen {
			visited[s] = struct{}{}
			queue = append(queue, s)
		}
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for v := range g.adj[n] {
			if _, seen := visited[v]; !seen {
				visited[v] = struct{}{}
				queue = append(queue, v)
			}
		}
	}

	return visited
}

const (
	colorWhite = 0 // unvisited
	colorGray  = 1 // in progress (on the current DFS stack)
	colorBlack = 2 // done
)

// FindCycle returns "", false if the graph is acyclic. Otherwise it returns
// a canonical cycle string "n1 -> n2 -> ... -> n1" where n1 is the
// lexicographically smallest node within the discovered cycle, the
// remainder preserving traversal order, true.
//
// Nodes are iterated in sorted order so that, for a given adjacency set,
// the discovered cycle (and hence the string) is deterministic.
func FindCycle[T comparable](g *Graph[T], less func(a, b T) bool) (string, bool) {
	color := make(map[T]int, len(g.adj))
	parent := make(map[T]T, len(g.adj))

	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return less(nodes[i], nodes[j]) })

	var cycleStart, cycleClosesAt T
	found := false

	var visit func(u T) bool
	visit = func(u T) bool {
		color[u] = colorGray

		neighbors := g.Neighbors(u)
		sort.Slice(neighbors, func(i, j int) bool { return less(neighbors[i], neighbors[j]) })

		for _, v := range neighbors {
			switch color[v] {
			case colorWhite:
				parent[v] = u
				if visit(v) {
					return true
				}
			case colorGray:
				cycleStart = v
				cycleClosesAt = u
				found = true
				return true
			}
		}

		color[u] = colorBlack
		return false
	}

	for _, n := range nodes {
		if color[n] == colorWhite {
			if visit(n) {
				break
			}
		}
	}

	if !found {
		return "", false
	}

	// Walk the parent map from cycleClosesAt back to cycleStart to reconstruct
	// the cycle in traversal order, then rotate so the minimum node is first.
	path := []T{cycleStart}
	for n := cycleClosesAt; n != cycleStart; n = parent[n] {
		path = append(path, n)
	}
	// path is currently [cycleStart, cycleClosesAt, ..., child of cycleStart]:
	// the tail is in reverse traversal order, so reverse the tail.
	reversed := make([]T, len(path))
	reversed[0] = path[0]
	for i := 1; i < len(path); i++ {
		reversed[i] = path[len(path)-i]
	}
	path = reversed

	minIdx := 0
	for i, n := range path {
		if less(n, path[minIdx]) {
			minIdx = i
		}
	}
	rotated := append(append([]T{}, path[minIdx:]...), path[:minIdx]...)
	rotated = append(rotated, rotated[0])

	parts := make([]string, len(rotated))
	for i, n := range rotated {
		parts[i] = toString(n)
	}
	return strings.Join(parts, " -> "), true
}

// toString renders a node for the canonical cycle string. T is constrained
// only by comparable at the Graph level, but FindCycle is used exclusively
// with string-like node types in this module, so fmt.Sprint is sufficient
// and keeps Graph itself free of a Stringer constraint.
func toString[T comparable](n T) string {
	if s, ok := any(n).(string); ok {
		return s
	}
	return fmt.Sprint(n)
}
