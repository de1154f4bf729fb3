package traverse

import (
	"github.com/gandergraph/gander/pkg/graph"
)

// Components assigns every node a connected-component index and returns
// the assignment with the component count. Indices are dense, start at
// 0, and follow ascending order of each component's lowest node ID, so
// the assignment is deterministic for a given graph.
func Components(g *graph.Graph) (map[graph.ID]int, int) {
	assignment := make(map[graph.ID]int, g.NodeCount())
	count := 0
	for _, id := range g.Nodes() {
		if _, seen := assignment[id]; seen {
			continue
		}
		for member := range BFSFrom(g, id) {
			assignment[member] = count
		}
		count++
	}
	return assignment, count
}
