// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestTopologicalSort_EmptyGraph(t *testing.T) {
	t.Parallel()
	g := New()
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil, got %v", order)
	}
}

func TestTopologicalSort_BuildTasks(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode("processResources")
	g.AddNode("generateFabricMetadata")
	g.AddDependency("processResources", "generateFabricMetadata")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"generateFabricMetadata", "processResources"}
	if !slices.Equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestTopologicalSort_Diamond(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("A", "C")
	g.AddEdge("B", "D")
	g.AddEdge("C", "D")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"A", "B", "C", "D"}) {
		t.Errorf("expected insertion-stable order [A B C D], got %v", order)
	}
}

func TestTopologicalSort_Cycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edges   [][2]string
		minSize int
	}{
		{"self loop", [][2]string{{"A", "A"}}, 1},
		{"two nodes", [][2]string{{"A", "B"}, {"B", "A"}}, 2},
		{"three nodes", [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}
			_, err := g.TopologicalSort()
			if !errors.Is(err, ErrCycle) {
				t.Fatalf("expected ErrCycle, got %v", err)
			}
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("expected *CycleError, got %T", err)
			}
			if len(cycleErr.Cycle) < tt.minSize {
				t.Errorf("expected at least %d nodes in cycle, got %v", tt.minSize, cycleErr.Cycle)
			}
		})
	}
}

func TestTopologicalSort_DisconnectedComponents(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddNode("C")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 3 {
		t.Errorf("expected 3 nodes, got %v", order)
	}
	if slices.Index(order, "A") >= slices.Index(order, "B") {
		t.Errorf("A must come before B in %v", order)
	}
}

func TestAddEdge_Duplicate(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("A", "B")

	if got := len(g.adjacency["A"]); got != 1 {
		t.Errorf("expected 1 stored edge, got %d", got)
	}
	if g.Len() != 2 || !g.Has("A") || g.Has("Z") {
		t.Errorf("unexpected node set: %v", g.nodes)
	}
}

func TestAncestors(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddDependency("jar", "processResources")
	g.AddDependency("processResources", "generateFabricMetadata")
	g.AddNode("clean")

	got, err := g.Ancestors("jar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"generateFabricMetadata", "processResources"}; !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	none, err := g.Ancestors("clean")
	if err != nil || len(none) != 0 {
		t.Errorf("expected no ancestors for clean, got %v, %v", none, err)
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	err := &CycleError{Cycle: []string{"A", "B", "C"}}
	expected := "dependency cycle detected: A -> B -> C"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
