package layout

import (
	"math"

	"github.com/gandergraph/gander/pkg/graph"
)

// Circular places nodes evenly on a single circle, in ascending id
// order.
func Circular(g *graph.Graph, opts Options, report func(float64)) (map[graph.ID]graph.Point, error) {
	opts = opts.withDefaults()
	if pos, done := trivial(g, opts); done {
		emit(report, 1)
		return pos, nil
	}

	ids := g.Nodes()
	pos := make(map[graph.ID]graph.Point, len(ids))
	step := 2 * math.Pi / float64(len(ids))
	for i, id := range ids {
		theta := step * float64(i)
		pos[id] = graph.Point{X: math.Cos(theta), Y: math.Sin(theta)}
	}
	rescale(pos, opts)
	emit(report, 1)
	return pos, nil
}

// Spiral winds nodes outward from the center along an Archimedean
// spiral: the i-th node sits at radius sqrt(i), rotated in proportion
// to the radius. Options.Resolution controls the winding tightness.
func Spiral(g *graph.Graph, opts Options, report func(float64)) (map[graph.ID]graph.Point, error) {
	opts = opts.withDefaults()
	if pos, done := trivial(g, opts); done {
		emit(report, 1)
		return pos, nil
	}

	ids := g.Nodes()
	pos := make(map[graph.ID]graph.Point, len(ids))
	for i, id := range ids {
		r := math.Sqrt(float64(i))
		theta := opts.Resolution * 2 * math.Pi * r
		pos[id] = graph.Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	}
	rescale(pos, opts)
	emit(report, 1)
	return pos, nil
}
