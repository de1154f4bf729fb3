package layout

import (
	"github.com/gandergraph/gander/pkg/errors"
	"github.com/gandergraph/gander/pkg/graph"
)

// Spectral projects precomputed Laplacian coordinates into the output
// square. The eigen work happens upstream (the laplacian statistic);
// this layout only validates and rescales, and returns a
// [errors.PreconditionError] naming that dependency when any node has
// no coordinates in Options.Positions.
func Spectral(g *graph.Graph, opts Options, report func(float64)) (map[graph.ID]graph.Point, error) {
	opts = opts.withDefaults()
	if pos, done := trivial(g, opts); done {
		emit(report, 1)
		return pos, nil
	}

	ids := g.Nodes()
	pos := make(map[graph.ID]graph.Point, len(ids))
	for _, id := range ids {
		p, ok := opts.Positions[id]
		if !ok {
			return nil, &errors.PreconditionError{
				Requires: "laplacian",
				Message:  "node " + string(id) + " has no precomputed spectral coordinates",
			}
		}
		pos[id] = p
	}
	rescale(pos, opts)
	emit(report, 1)
	return pos, nil
}
