package stats

import (
	"slices"
	"testing"

	"github.com/gandergraph/gander/pkg/graph"
)

func TestCliquesTriangle(t *testing.T) {
	cliques := Cliques(triangle(t), nil)

	if len(cliques) != 1 {
		t.Fatalf("len(cliques) = %d, want 1", len(cliques))
	}
	if !slices.Equal(cliques[0], []graph.ID{"a", "b", "c"}) {
		t.Errorf("clique = %v, want [a b c]", cliques[0])
	}
}

func TestCliquesPath(t *testing.T) {
	// Every edge of a path is a maximal 2-clique.
	cliques := Cliques(pathGraph(t), nil)

	want := [][]graph.ID{{"a", "b"}, {"b", "c"}, {"c", "d"}}
	if len(cliques) != len(want) {
		t.Fatalf("len(cliques) = %d, want %d: %v", len(cliques), len(want), cliques)
	}
	for i := range want {
		if !slices.Equal(cliques[i], want[i]) {
			t.Errorf("cliques[%d] = %v, want %v", i, cliques[i], want[i])
		}
	}
}

func TestCliquesOverlapping(t *testing.T) {
	// Two triangles sharing the edge b-c.
	g := graph.New()
	g.AddEdge("a", "b", 1)
	g.AddEdge("a", "c", 1)
	g.AddEdge("b", "c", 1)
	g.AddEdge("b", "d", 1)
	g.AddEdge("c", "d", 1)

	cliques := Cliques(g, nil)
	want := [][]graph.ID{{"a", "b", "c"}, {"b", "c", "d"}}
	if len(cliques) != 2 {
		t.Fatalf("len(cliques) = %d, want 2: %v", len(cliques), cliques)
	}
	for i := range want {
		if !slices.Equal(cliques[i], want[i]) {
			t.Errorf("cliques[%d] = %v, want %v", i, cliques[i], want[i])
		}
	}
}

func TestCliquesIsolatedAndEmpty(t *testing.T) {
	g := graph.New()
	g.AddNode("solo")
	g.AddEdge("a", "b", 1)

	cliques := Cliques(g, nil)
	want := [][]graph.ID{{"a", "b"}, {"solo"}}
	if len(cliques) != 2 {
		t.Fatalf("len(cliques) = %d, want 2: %v", len(cliques), cliques)
	}
	for i := range want {
		if !slices.Equal(cliques[i], want[i]) {
			t.Errorf("cliques[%d] = %v, want %v", i, cliques[i], want[i])
		}
	}

	if got := Cliques(graph.New(), nil); len(got) != 0 {
		t.Errorf("Cliques(empty) = %v, want none", got)
	}
}

func TestCliquesDeterministic(t *testing.T) {
	g := graph.New()
	g.AddEdge("d", "c", 1)
	g.AddEdge("b", "a", 1)
	g.AddEdge("a", "c", 1)

	first := Cliques(g, nil)
	second := Cliques(g, nil)

	if len(first) != len(second) {
		t.Fatalf("clique counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !slices.Equal(first[i], second[i]) {
			t.Errorf("run mismatch at %d: %v vs %v", i, first[i], second[i])
		}
	}
}
