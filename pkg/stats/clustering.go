package stats

import (
	"github.com/gandergraph/gander/pkg/graph"
	"github.com/gandergraph/gander/pkg/graph/traverse"
)

// Clustering returns the local clustering coefficient for the requested
// nodes, or for every node when nodes is nil: 2T/(k(k-1)) for a node
// with k distinct neighbors and T triangles through it. Nodes with
// fewer than two neighbors (unknown ids included) score 0.
func Clustering(g *graph.Graph, nodes []graph.ID, report func(float64)) map[graph.ID]float64 {
	ids := targets(g, nodes)
	out := make(map[graph.ID]float64, len(ids))

	step := stride(len(ids))
	for i, id := range ids {
		out[id] = clustering(g, id)
		if i%step == 0 {
			emit(report, float64(i+1)/float64(len(ids)))
		}
	}
	emit(report, 1)
	return out
}

func clustering(g *graph.Graph, id graph.ID) float64 {
	k := g.NeighborCount(id)
	if k < 2 {
		return 0
	}
	triangles := traverse.Triangles(g, id)
	return 2 * float64(triangles) / (float64(k) * float64(k-1))
}
