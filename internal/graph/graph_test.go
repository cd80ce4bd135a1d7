package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lessString(a, b string) bool { return a < b }

func TestReachableFrom_IncludesSeedsEvenWithoutEdges(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")

	reached := g.ReachableFrom([]string{"a", "z"})
	assert.Contains(t, reached, "a")
	assert.Contains(t, reached, "b")
	assert.Contains(t, reached, "z") // not a key at all, still a seed
	assert.Len(t, reached, 3)
}

func TestReachableFrom_Transitive(t *testing.T) {
	g := New[string]()
	g.AddEdge("a.hpp", "main.cpp")
	g.AddEdge("a.hpp", "b.cpp")
	g.AddEdge("b.cpp", "d.cpp") // d.cpp "includes" b.cpp, unlikely but exercises transitivity

	reached := g.ReachableFrom([]string{"a.hpp"})
	assert.Contains(t, reached, "main.cpp")
	assert.Contains(t, reached, "b.cpp")
	assert.Contains(t, reached, "d.cpp")
}

func TestFindCycle_Acyclic(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	_, found := FindCycle(g, lessString)
	assert.False(t, found)
}

func TestFindCycle_TwoNodeCycle(t *testing.T) {
	g := New[string]()
	g.AddEdge("x.hpp", "y.hpp")
	g.AddEdge("y.hpp", "x.hpp")

	cycle, found := FindCycle(g, lessString)
	assert.True(t, found)
	assert.Equal(t, "x.hpp -> y.hpp -> x.hpp", cycle)
}

func TestFindCycle_ParentChain(t *testing.T) {
	g := New[string]()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.AddEdge("C", "A")

	cycle, found := FindCycle(g, lessString)
	assert.True(t, found)
	assert.Equal(t, "A -> B -> C -> A", cycle)
}

func TestFindCycle_SelfLoop(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "a")

	cycle, found := FindCycle(g, lessString)
	assert.True(t, found)
	assert.Equal(t, "a -> a", cycle)
}

func TestAddEdge_IsIdempotent(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")

	assert.ElementsMatch(t, []string{"b"}, g.Neighbors("a"))
}
