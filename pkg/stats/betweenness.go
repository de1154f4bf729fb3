package stats

import (
	"github.com/gandergraph/gander/pkg/graph"
	"github.com/gandergraph/gander/pkg/graph/traverse"
)

// Betweenness returns shortest-path betweenness centrality via the
// Brandes accumulation scheme: one BFS per source followed by a
// reverse-order dependency sweep, O(V·E) total.
//
// Path endpoints are excluded, so leaves and nodes never interior to a
// shortest path score 0. With normalized set, scores are scaled by
// 1/((n-1)(n-2)), which expresses each score as a fraction of the
// pairs that could route through the node; graphs with n <= 2 have all
// zero scores. Without it, raw pair counts are returned (the doubled
// undirected accumulation halved).
//
// The computation is always global; a non-nil nodes subset only
// filters the returned map.
func Betweenness(g *graph.Graph, nodes []graph.ID, normalized bool, report func(float64)) map[graph.ID]float64 {
	all := g.Nodes()
	n := len(all)
	score := make(map[graph.ID]float64, n)
	for _, id := range all {
		score[id] = 0
	}

	step := stride(n)
	for i, source := range all {
		accumulate(g, source, score)
		if i%step == 0 {
			emit(report, float64(i+1)/float64(n))
		}
	}

	switch {
	case normalized && n > 2:
		factor := 1 / (float64(n-1) * float64(n-2))
		for id := range score {
			score[id] *= factor
		}
	case normalized:
		for id := range score {
			score[id] = 0
		}
	default:
		for id := range score {
			score[id] /= 2
		}
	}

	emit(report, 1)
	return filterScores(score, nodes)
}

// accumulate runs the Brandes dependency sweep for one source, adding
// each node's pair dependencies into score. Endpoints never receive
// their own dependency.
func accumulate(g *graph.Graph, source graph.ID, score map[graph.ID]float64) {
	tree := traverse.ShortestPathTree(g, source)

	delta := make(map[graph.ID]float64, len(tree.Order))
	for i := len(tree.Order) - 1; i >= 0; i-- {
		w := tree.Order[i]
		coefficient := (1 + delta[w]) / tree.Sigma[w]
		for _, v := range tree.Preds[w] {
			delta[v] += tree.Sigma[v] * coefficient
		}
		if w != source {
			score[w] += delta[w]
		}
	}
}

func filterScores(score map[graph.ID]float64, nodes []graph.ID) map[graph.ID]float64 {
	if nodes == nil {
		return score
	}
	out := make(map[graph.ID]float64, len(nodes))
	for _, id := range nodes {
		out[id] = score[id]
	}
	return out
}
