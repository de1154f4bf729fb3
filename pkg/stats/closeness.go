package stats

import (
	"github.com/gandergraph/gander/pkg/graph"
	"github.com/gandergraph/gander/pkg/graph/traverse"
)

// Closeness returns closeness centrality for the requested nodes, or
// for every node when nodes is nil.
//
// For a node u with r reachable others at total hop distance d, the raw
// score is r/d. With normalized set, the score is additionally scaled
// by r/(n-1) so values are comparable across components of different
// sizes. Isolated and unknown nodes score 0.
func Closeness(g *graph.Graph, nodes []graph.ID, normalized bool, report func(float64)) map[graph.ID]float64 {
	ids := targets(g, nodes)
	n := g.NodeCount()
	out := make(map[graph.ID]float64, len(ids))

	step := stride(len(ids))
	for i, id := range ids {
		out[id] = closeness(g, id, n, normalized)
		if i%step == 0 {
			emit(report, float64(i+1)/float64(len(ids)))
		}
	}
	emit(report, 1)
	return out
}

func closeness(g *graph.Graph, id graph.ID, n int, normalized bool) float64 {
	dist := traverse.BFSFrom(g, id)
	reachable := len(dist) - 1
	if reachable < 1 {
		return 0
	}
	total := 0
	for _, d := range dist {
		total += d
	}
	if total == 0 {
		return 0
	}
	score := float64(reachable) / float64(total)
	if normalized && n > 1 {
		score *= float64(reachable) / float64(n-1)
	}
	return score
}
