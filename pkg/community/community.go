package community

import (
	"sort"

	"github.com/gandergraph/gander/pkg/graph"
)

// Result is the outcome of a community detection run. Communities maps
// every node of the input graph to a community id; ids are contiguous
// integers starting at zero with no meaning beyond identity.
type Result struct {
	Communities    map[graph.ID]int `json:"communities"`
	Modularity     float64          `json:"modularity"`
	NumCommunities int              `json:"numCommunities"`
}

// Detector assigns every node of a graph to exactly one community.
// Implementations must be pure: no mutation of g, deterministic output
// for a given graph. The report callback may be nil; when set it
// receives monotone progress fractions in [0, 1].
type Detector interface {
	Detect(g *graph.Graph, report func(float64)) Result
}

// Modularity scores a partition with Newman's
// Q = (1/2m)·Σ_{i,j in same community}(A_ij - k_i·k_j/2m), summed over
// ordered node pairs with k taken from [graph.Graph.Degree] row sums.
// Edgeless graphs score zero. Nodes absent from the assignment are
// treated as singleton communities.
func Modularity(g *graph.Graph, assignment map[graph.ID]int) float64 {
	ids := g.Nodes()
	lv := levelFromGraph(g, ids)

	member := make([]int, len(ids))
	fresh := 0
	for _, c := range assignment {
		if c >= fresh {
			fresh = c + 1
		}
	}
	for i, id := range ids {
		if c, ok := assignment[id]; ok {
			member[i] = c
		} else {
			member[i] = fresh
			fresh++
		}
	}
	return lv.modularity(member)
}

// level is one resolution of the graph during optimization: a symmetric
// weighted adjacency over contiguous node indices. The diagonal holds
// aggregated intra-community weight counted as ordered pairs, so row
// sums are the degrees the modularity formula expects.
type level struct {
	adj    []map[int]float64
	degree []float64
	m2     float64 // sum of all degrees, i.e. 2m
}

// levelFromGraph indexes g's nodes in ascending id order and copies its
// adjacency rows verbatim.
func levelFromGraph(g *graph.Graph, ids []graph.ID) *level {
	n := len(ids)
	index := make(map[graph.ID]int, n)
	for i, id := range ids {
		index[id] = i
	}

	lv := &level{
		adj:    make([]map[int]float64, n),
		degree: make([]float64, n),
	}
	for i, id := range ids {
		row := make(map[int]float64)
		for _, nb := range g.Neighbors(id) {
			w, _ := g.Weight(id, nb)
			row[index[nb]] = w
			lv.degree[i] += w
		}
		lv.adj[i] = row
		lv.m2 += lv.degree[i]
	}
	return lv
}

// modularity computes Q for an arbitrary membership over this level.
func (lv *level) modularity(member []int) float64 {
	if lv.m2 == 0 {
		return 0
	}

	in := make(map[int]float64)
	tot := make(map[int]float64)
	for i, row := range lv.adj {
		c := member[i]
		tot[c] += lv.degree[i]
		for j, w := range row {
			if member[j] == c {
				in[c] += w
			}
		}
	}

	q := 0.0
	for c, t := range tot {
		q += in[c]/lv.m2 - (t/lv.m2)*(t/lv.m2)
	}
	return q
}

// aggregate collapses communities into super-nodes. member maps node
// index to a contiguous community id in [0, count); intra-community
// weight lands on the diagonal of the coarse adjacency.
func (lv *level) aggregate(member []int, count int) *level {
	coarse := &level{
		adj:    make([]map[int]float64, count),
		degree: make([]float64, count),
		m2:     lv.m2,
	}
	for i := range coarse.adj {
		coarse.adj[i] = make(map[int]float64)
	}
	for i, row := range lv.adj {
		ci := member[i]
		coarse.degree[ci] += lv.degree[i]
		for j, w := range row {
			coarse.adj[ci][member[j]] += w
		}
	}
	return coarse
}

func sortedCommunities(cand map[int]float64) []int {
	out := make([]int, 0, len(cand))
	for c := range cand {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

func emit(report func(float64), v float64) {
	if report != nil {
		report(v)
	}
}
