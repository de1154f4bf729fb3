package traverse

import (
	"github.com/gandergraph/gander/pkg/graph"
)

// Adjacency materializes the neighbor lists for every node, sorted
// ascending. Algorithms that sweep neighbors repeatedly (betweenness,
// eigenvector passes, stress iterations) use this instead of calling
// [graph.Graph.Neighbors] per visit.
func Adjacency(g *graph.Graph) map[graph.ID][]graph.ID {
	adj := make(map[graph.ID][]graph.ID, g.NodeCount())
	for _, id := range g.Nodes() {
		adj[id] = g.Neighbors(id)
	}
	return adj
}

// Triangles counts the triangles through a node: unordered neighbor
// pairs that are themselves connected. Unknown nodes and nodes with
// fewer than two neighbors have no triangles.
func Triangles(g *graph.Graph, id graph.ID) int {
	neighbors := g.Neighbors(id)
	count := 0
	for i := 0; i < len(neighbors); i++ {
		for j := i + 1; j < len(neighbors); j++ {
			if g.HasEdge(neighbors[i], neighbors[j]) {
				count++
			}
		}
	}
	return count
}
