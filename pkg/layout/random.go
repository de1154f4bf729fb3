package layout

import (
	"github.com/gandergraph/gander/pkg/graph"
)

// Random scatters nodes uniformly across the output square. The
// placement is seeded, so a fixed Options.Seed reproduces it exactly.
func Random(g *graph.Graph, opts Options, report func(float64)) (map[graph.ID]graph.Point, error) {
	opts = opts.withDefaults()
	if pos, done := trivial(g, opts); done {
		emit(report, 1)
		return pos, nil
	}

	rng := newRNG(opts.Seed)
	pos := make(map[graph.ID]graph.Point, g.NodeCount())
	for _, id := range g.Nodes() {
		pos[id] = graph.Point{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5}
	}
	rescale(pos, opts)
	emit(report, 1)
	return pos, nil
}
