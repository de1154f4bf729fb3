package community

import (
	"math"
	"testing"

	"github.com/gandergraph/gander/pkg/graph"
)

// barbell is two triangles joined by one bridge edge; its natural
// partition is one community per triangle with modularity 5/14.
func barbell(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	g.AddEdge("a", "b", 1)
	g.AddEdge("b", "c", 1)
	g.AddEdge("a", "c", 1)
	g.AddEdge("c", "d", 1)
	g.AddEdge("d", "e", 1)
	g.AddEdge("e", "f", 1)
	g.AddEdge("d", "f", 1)
	return g
}

func TestLouvainTwoTriangles(t *testing.T) {
	g := barbell(t)
	res := Louvain{}.Detect(g, nil)

	if res.NumCommunities != 2 {
		t.Fatalf("NumCommunities = %d, want 2", res.NumCommunities)
	}
	for _, pair := range [][2]graph.ID{{"a", "b"}, {"b", "c"}, {"d", "e"}, {"e", "f"}} {
		if res.Communities[pair[0]] != res.Communities[pair[1]] {
			t.Errorf("%s and %s split across communities: %v", pair[0], pair[1], res.Communities)
		}
	}
	if res.Communities["a"] == res.Communities["d"] {
		t.Errorf("triangles merged into one community: %v", res.Communities)
	}

	if want := 5.0 / 14.0; math.Abs(res.Modularity-want) > 1e-9 {
		t.Errorf("Modularity = %v, want %v", res.Modularity, want)
	}
}

func TestLouvainReportedModularityMatchesScore(t *testing.T) {
	g := barbell(t)
	res := Louvain{}.Detect(g, nil)

	if got := Modularity(g, res.Communities); math.Abs(got-res.Modularity) > 1e-12 {
		t.Errorf("Modularity(assignment) = %v, reported %v", got, res.Modularity)
	}
}

func TestLouvainEveryNodeAssigned(t *testing.T) {
	g := barbell(t)
	g.AddNode("lonely")

	res := Louvain{}.Detect(g, nil)
	if len(res.Communities) != g.NodeCount() {
		t.Fatalf("len(Communities) = %d, want %d", len(res.Communities), g.NodeCount())
	}
	for _, id := range g.Nodes() {
		c, ok := res.Communities[id]
		if !ok {
			t.Fatalf("node %s missing from assignment", id)
		}
		if c < 0 || c >= res.NumCommunities {
			t.Errorf("Communities[%s] = %d, outside [0, %d)", id, c, res.NumCommunities)
		}
	}
}

func TestLouvainSingleClique(t *testing.T) {
	g := graph.New()
	for _, pair := range [][2]graph.ID{{"a", "b"}, {"a", "c"}, {"a", "d"}, {"b", "c"}, {"b", "d"}, {"c", "d"}} {
		g.AddEdge(pair[0], pair[1], 1)
	}

	res := Louvain{}.Detect(g, nil)
	if res.NumCommunities != 1 {
		t.Fatalf("NumCommunities = %d, want 1: %v", res.NumCommunities, res.Communities)
	}
	if math.Abs(res.Modularity) > 1e-12 {
		t.Errorf("Modularity = %v, want 0 for a single community", res.Modularity)
	}
}

func TestLouvainEdgeless(t *testing.T) {
	g := graph.New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")

	res := Louvain{}.Detect(g, nil)
	if res.NumCommunities != 3 {
		t.Fatalf("NumCommunities = %d, want 3", res.NumCommunities)
	}
	seen := make(map[int]bool)
	for id, c := range res.Communities {
		if seen[c] {
			t.Errorf("community %d reused for %s", c, id)
		}
		seen[c] = true
	}
	if res.Modularity != 0 {
		t.Errorf("Modularity = %v, want 0 on edgeless graph", res.Modularity)
	}
}

func TestLouvainEmpty(t *testing.T) {
	res := Louvain{}.Detect(graph.New(), nil)
	if len(res.Communities) != 0 || res.NumCommunities != 0 || res.Modularity != 0 {
		t.Errorf("Detect(empty) = %+v, want empty zero-valued result", res)
	}
}

func TestLouvainDeterministic(t *testing.T) {
	g := barbell(t)
	first := Louvain{}.Detect(g, nil)
	second := Louvain{}.Detect(g, nil)

	if first.NumCommunities != second.NumCommunities || first.Modularity != second.Modularity {
		t.Fatalf("runs disagree: %+v vs %+v", first, second)
	}
	for id, c := range first.Communities {
		if second.Communities[id] != c {
			t.Errorf("Communities[%s] differs across runs: %d vs %d", id, c, second.Communities[id])
		}
	}
}

func TestLouvainProgress(t *testing.T) {
	var seen []float64
	Louvain{}.Detect(barbell(t), func(v float64) { seen = append(seen, v) })

	if len(seen) == 0 {
		t.Fatal("no progress reported")
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] < seen[i-1] {
			t.Fatalf("progress regressed: %v after %v", seen[i], seen[i-1])
		}
	}
	if last := seen[len(seen)-1]; last != 1 {
		t.Errorf("final progress = %v, want 1", last)
	}
}

func TestModularityKnownPartitions(t *testing.T) {
	triangle := graph.New()
	triangle.AddEdge("a", "b", 1)
	triangle.AddEdge("b", "c", 1)
	triangle.AddEdge("a", "c", 1)

	tests := []struct {
		name       string
		g          *graph.Graph
		assignment map[graph.ID]int
		want       float64
	}{
		{
			name:       "triangle all in one community",
			g:          triangle,
			assignment: map[graph.ID]int{"a": 0, "b": 0, "c": 0},
			want:       0,
		},
		{
			name:       "triangle singletons",
			g:          triangle,
			assignment: map[graph.ID]int{"a": 0, "b": 1, "c": 2},
			want:       -1.0 / 3.0,
		},
		{
			name:       "barbell ideal split",
			g:          barbell(t),
			assignment: map[graph.ID]int{"a": 0, "b": 0, "c": 0, "d": 1, "e": 1, "f": 1},
			want:       5.0 / 14.0,
		},
		{
			name:       "missing nodes become singletons",
			g:          triangle,
			assignment: map[graph.ID]int{},
			want:       -1.0 / 3.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Modularity(tt.g, tt.assignment); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Modularity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModularityEdgeless(t *testing.T) {
	g := graph.New()
	g.AddNode("a")
	if got := Modularity(g, map[graph.ID]int{"a": 0}); got != 0 {
		t.Errorf("Modularity = %v, want 0 with no edges", got)
	}
}
