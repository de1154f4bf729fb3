package stats

import (
	"github.com/gandergraph/gander/pkg/graph"
	"github.com/gandergraph/gander/pkg/graph/traverse"
)

// Density returns 2E/(n(n-1)), the fraction of possible edges present.
// Graphs with fewer than two nodes have density 0. Duplicate
// connection entries count individually, matching [graph.Graph.EdgeCount].
func Density(g *graph.Graph) float64 {
	n := g.NodeCount()
	if n < 2 {
		return 0
	}
	return 2 * float64(g.EdgeCount()) / (float64(n) * float64(n-1))
}

// AverageDegree returns the mean weighted degree over all nodes, or 0
// for the empty graph.
func AverageDegree(g *graph.Graph) float64 {
	ids := g.Nodes()
	if len(ids) == 0 {
		return 0
	}
	total := 0.0
	for _, id := range ids {
		total += g.Degree(id)
	}
	return total / float64(len(ids))
}

// AverageClustering returns the mean local clustering coefficient over
// all nodes, or 0 for the empty graph.
func AverageClustering(g *graph.Graph, report func(float64)) float64 {
	ids := g.Nodes()
	if len(ids) == 0 {
		emit(report, 1)
		return 0
	}
	total := 0.0
	for _, c := range Clustering(g, ids, report) {
		total += c
	}
	return total / float64(len(ids))
}

// Diameter returns the longest shortest path in hops, considering
// reachable pairs only: disconnected components never contribute an
// infinite distance, they are simply skipped. Empty and edgeless
// graphs have diameter 0.
func Diameter(g *graph.Graph, report func(float64)) int {
	ids := g.Nodes()
	diameter := 0

	step := stride(len(ids))
	for i, id := range ids {
		for _, d := range traverse.BFSFrom(g, id) {
			if d > diameter {
				diameter = d
			}
		}
		if i%step == 0 {
			emit(report, float64(i+1)/float64(len(ids)))
		}
	}
	emit(report, 1)
	return diameter
}

// AveragePathLength returns the mean hop distance over all ordered
// reachable pairs of distinct nodes. Unreachable pairs are excluded
// from both the sum and the count; a graph with no reachable pairs
// scores 0.
func AveragePathLength(g *graph.Graph, report func(float64)) float64 {
	ids := g.Nodes()
	sum := 0
	pairs := 0

	step := stride(len(ids))
	for i, id := range ids {
		for other, d := range traverse.BFSFrom(g, id) {
			if other == id {
				continue
			}
			sum += d
			pairs++
		}
		if i%step == 0 {
			emit(report, float64(i+1)/float64(len(ids)))
		}
	}
	emit(report, 1)

	if pairs == 0 {
		return 0
	}
	return float64(sum) / float64(pairs)
}

// Components returns the connected-component summary: count, per-node
// membership, and per-component sizes.
func Components(g *graph.Graph) ComponentSummary {
	membership, count := traverse.Components(g)
	sizes := make(map[int]int, count)
	for _, c := range membership {
		sizes[c]++
	}
	return ComponentSummary{Count: count, Membership: membership, Sizes: sizes}
}
