package stats

import (
	"github.com/gandergraph/gander/pkg/graph"
)

// Degree returns the weighted degree (incident edge weight sum) for the
// requested nodes, or for every node when nodes is nil. Unknown ids
// score 0.
func Degree(g *graph.Graph, nodes []graph.ID) map[graph.ID]float64 {
	ids := targets(g, nodes)
	out := make(map[graph.ID]float64, len(ids))
	for _, id := range ids {
		out[id] = g.Degree(id)
	}
	return out
}

// EgoDensity returns, per requested node, the density of the subgraph
// induced by the node and its neighbors. Ego networks with fewer than
// two members (isolated and unknown nodes) score 0.
func EgoDensity(g *graph.Graph, nodes []graph.ID) map[graph.ID]float64 {
	ids := targets(g, nodes)
	out := make(map[graph.ID]float64, len(ids))
	for _, id := range ids {
		out[id] = egoDensity(g, id)
	}
	return out
}

func egoDensity(g *graph.Graph, id graph.ID) float64 {
	if !g.HasNode(id) {
		return 0
	}
	members := append(g.Neighbors(id), id)
	k := len(members)
	if k < 2 {
		return 0
	}
	edges := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if g.HasEdge(members[i], members[j]) {
				edges++
			}
		}
	}
	return 2 * float64(edges) / (float64(k) * float64(k-1))
}
