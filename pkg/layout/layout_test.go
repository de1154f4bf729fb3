package layout

import (
	"math"
	"testing"

	"github.com/gandergraph/gander/pkg/graph"
)

// fixture is a 4-cycle with one pendant node: connected, asymmetric
// enough that no two layout positions coincide.
func fixture(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	g.AddEdge("a", "b", 1)
	g.AddEdge("b", "c", 1)
	g.AddEdge("c", "d", 1)
	g.AddEdge("d", "a", 1)
	g.AddEdge("a", "e", 1)
	return g
}

type algorithm struct {
	name string
	run  func(*graph.Graph, Options, func(float64)) (map[graph.ID]graph.Point, error)
	opts func(*graph.Graph) Options
}

func algorithms() []algorithm {
	plain := func(*graph.Graph) Options { return Options{} }
	withPositions := func(g *graph.Graph) Options {
		pre := make(map[graph.ID]graph.Point)
		for i, id := range g.Nodes() {
			pre[id] = graph.Point{X: float64(i), Y: float64(-i * i)}
		}
		return Options{Positions: pre}
	}
	return []algorithm{
		{"random", Random, plain},
		{"circular", Circular, plain},
		{"spiral", Spiral, plain},
		{"shell", Shell, plain},
		{"spectral", Spectral, withPositions},
		{"fruchterman_reingold", FruchtermanReingold, plain},
		{"kamada_kawai", KamadaKawai, plain},
		{"bipartite", Bipartite, plain},
		{"multipartite", Multipartite, plain},
		{"bfs_layers", BFSLayers, plain},
	}
}

func TestLayoutContract(t *testing.T) {
	g := fixture(t)
	for _, alg := range algorithms() {
		t.Run(alg.name, func(t *testing.T) {
			opts := alg.opts(g)
			opts.Scale = 2
			opts.Center = graph.Point{X: 1, Y: -1}

			pos, err := alg.run(g, opts, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(pos) != g.NodeCount() {
				t.Fatalf("len(pos) = %d, want %d", len(pos), g.NodeCount())
			}

			maxAbs := 0.0
			for id, p := range pos {
				if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
					t.Fatalf("pos[%s] = %v, not finite", id, p)
				}
				if a := math.Abs(p.X - opts.Center.X); a > maxAbs {
					maxAbs = a
				}
				if a := math.Abs(p.Y - opts.Center.Y); a > maxAbs {
					maxAbs = a
				}
			}
			if math.Abs(maxAbs-opts.Scale) > 1e-9 {
				t.Errorf("max abs coordinate = %v, want %v", maxAbs, opts.Scale)
			}
		})
	}
}

func TestLayoutDeterminism(t *testing.T) {
	g := fixture(t)
	for _, alg := range algorithms() {
		t.Run(alg.name, func(t *testing.T) {
			first, err := alg.run(g, alg.opts(g), nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			second, err := alg.run(g, alg.opts(g), nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for id, p := range first {
				if second[id] != p {
					t.Fatalf("pos[%s] differs across runs: %v vs %v", id, p, second[id])
				}
			}
		})
	}
}

func TestLayoutBaseCases(t *testing.T) {
	empty := graph.New()
	single := graph.New()
	single.AddNode("only")
	center := graph.Point{X: 3, Y: 4}

	for _, alg := range algorithms() {
		t.Run(alg.name, func(t *testing.T) {
			pos, err := alg.run(empty, Options{}, nil)
			if err != nil {
				t.Fatalf("empty graph: unexpected error: %v", err)
			}
			if len(pos) != 0 {
				t.Errorf("empty graph: len(pos) = %d, want 0", len(pos))
			}

			// Base cases run before any per-algorithm preconditions,
			// so even Spectral places a lone node without coordinates.
			pos, err = alg.run(single, Options{Center: center}, nil)
			if err != nil {
				t.Fatalf("single node: unexpected error: %v", err)
			}
			if got := pos["only"]; got != center {
				t.Errorf("single node at %v, want exactly %v", got, center)
			}
		})
	}
}

func TestLayoutProgress(t *testing.T) {
	g := fixture(t)
	for _, alg := range algorithms() {
		t.Run(alg.name, func(t *testing.T) {
			var seen []float64
			if _, err := alg.run(g, alg.opts(g), func(v float64) { seen = append(seen, v) }); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
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
		})
	}
}

func TestRescaleCoincident(t *testing.T) {
	pos := map[graph.ID]graph.Point{
		"a": {X: 3, Y: 3},
		"b": {X: 3, Y: 3},
	}
	opts := Options{Scale: 5, Center: graph.Point{X: -1, Y: 2}}.withDefaults()
	rescale(pos, opts)

	for id, p := range pos {
		if p != opts.Center {
			t.Errorf("pos[%s] = %v, want center %v for coincident input", id, p, opts.Center)
		}
	}
}

func TestRandomSeedsDiffer(t *testing.T) {
	g := fixture(t)
	one, _ := Random(g, Options{Seed: 1}, nil)
	two, _ := Random(g, Options{Seed: 2}, nil)

	same := true
	for id, p := range one {
		if two[id] != p {
			same = false
			break
		}
	}
	if same {
		t.Error("seeds 1 and 2 produced identical layouts")
	}
}
