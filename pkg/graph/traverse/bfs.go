package traverse

import (
	"github.com/gandergraph/gander/pkg/graph"
)

// BFSFrom returns the hop distance from source to every reachable node,
// including the source itself at distance 0. Unreachable nodes are
// absent from the returned map. An unknown source yields a map holding
// only the source.
func BFSFrom(g *graph.Graph, source graph.ID) map[graph.ID]int {
	dist := map[graph.ID]int{source: 0}
	queue := []graph.ID{source}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.Neighbors(current) {
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[current] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

// AllPairs runs [BFSFrom] from every node and returns the full
// unweighted distance table. Only reachable pairs appear. The table
// costs O(V·(V+E)) time and O(V²) space in the worst case.
func AllPairs(g *graph.Graph) map[graph.ID]map[graph.ID]int {
	table := make(map[graph.ID]map[graph.ID]int, g.NodeCount())
	for _, id := range g.Nodes() {
		table[id] = BFSFrom(g, id)
	}
	return table
}

// PathTree holds the single-source shortest-path structure used by
// betweenness accumulation: visit order, hop distances, the number of
// shortest paths reaching each node, and the predecessors that lie on
// them.
type PathTree struct {
	// Order lists visited nodes in non-decreasing distance; walking it
	// backwards visits every node after all of its successors.
	Order []graph.ID
	Dist  map[graph.ID]int
	// Sigma counts shortest paths from the source to each node.
	Sigma map[graph.ID]float64
	// Preds lists, per node, the neighbors preceding it on at least one
	// shortest path.
	Preds map[graph.ID][]graph.ID
}

// ShortestPathTree computes the shortest-path structure from a single
// source in O(V+E) time.
func ShortestPathTree(g *graph.Graph, source graph.ID) PathTree {
	t := PathTree{
		Dist:  map[graph.ID]int{source: 0},
		Sigma: map[graph.ID]float64{source: 1},
		Preds: make(map[graph.ID][]graph.ID),
	}
	queue := []graph.ID{source}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		t.Order = append(t.Order, current)
		for _, next := range g.Neighbors(current) {
			d, seen := t.Dist[next]
			if !seen {
				t.Dist[next] = t.Dist[current] + 1
				queue = append(queue, next)
				t.Sigma[next] += t.Sigma[current]
				t.Preds[next] = append(t.Preds[next], current)
				continue
			}
			// Another shortest path through current.
			if d == t.Dist[current]+1 {
				t.Sigma[next] += t.Sigma[current]
				t.Preds[next] = append(t.Preds[next], current)
			}
		}
	}
	return t
}
