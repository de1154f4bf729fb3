package stats

import (
	"slices"

	"github.com/gandergraph/gander/pkg/graph"
)

// Cliques enumerates every maximal clique using Bron-Kerbosch with
// pivoting. Each returned clique is sorted ascending and the clique
// list itself is in lexicographic order, so output is deterministic.
// Isolated nodes form their own single-member cliques.
//
// Candidate and excluded sets are snapshotted per recursive call:
// every recursion level works on fresh slices, so no state leaks
// between sibling branches. Worst case is exponential in the clique
// count, as the problem demands.
func Cliques(g *graph.Graph, report func(float64)) [][]graph.ID {
	ids := g.Nodes()
	neighbors := make(map[graph.ID]map[graph.ID]bool, len(ids))
	for _, id := range ids {
		set := make(map[graph.ID]bool)
		for _, nb := range g.Neighbors(id) {
			set[nb] = true
		}
		neighbors[id] = set
	}

	var cliques [][]graph.ID

	// First expansion level runs here so candidate progress can be
	// reported; deeper levels recurse silently.
	p := slices.Clone(ids)
	x := []graph.ID{}
	candidates := subtract(p, neighbors[choosePivot(neighbors, p, x)])
	step := stride(len(candidates))
	for i, v := range candidates {
		nv := neighbors[v]
		bronKerbosch(neighbors, []graph.ID{v}, intersect(p, nv), intersect(x, nv), &cliques)
		p = subtract(p, map[graph.ID]bool{v: true})
		x = append(slices.Clone(x), v)
		if i%step == 0 {
			emit(report, float64(i+1)/float64(len(candidates)))
		}
	}
	emit(report, 1)

	for _, c := range cliques {
		slices.Sort(c)
	}
	slices.SortFunc(cliques, slices.Compare)
	return cliques
}

func bronKerbosch(neighbors map[graph.ID]map[graph.ID]bool, r, p, x []graph.ID, out *[][]graph.ID) {
	if len(p) == 0 && len(x) == 0 {
		*out = append(*out, slices.Clone(r))
		return
	}
	candidates := subtract(p, neighbors[choosePivot(neighbors, p, x)])
	for _, v := range candidates {
		nv := neighbors[v]
		bronKerbosch(neighbors, append(slices.Clone(r), v), intersect(p, nv), intersect(x, nv), out)
		p = subtract(p, map[graph.ID]bool{v: true})
		x = append(slices.Clone(x), v)
	}
}

// choosePivot picks the node from p ∪ x with the most candidate
// neighbors, minimizing the branches explored. Ties resolve to the
// earliest node in the (sorted) input.
func choosePivot(neighbors map[graph.ID]map[graph.ID]bool, p, x []graph.ID) graph.ID {
	var pivot graph.ID
	best := -1
	for _, lists := range [][]graph.ID{p, x} {
		for _, u := range lists {
			count := 0
			for _, v := range p {
				if neighbors[u][v] {
					count++
				}
			}
			if count > best {
				best = count
				pivot = u
			}
		}
	}
	return pivot
}

// intersect returns the members of list that are in set, as a fresh
// slice preserving list order.
func intersect(list []graph.ID, set map[graph.ID]bool) []graph.ID {
	out := make([]graph.ID, 0, len(list))
	for _, id := range list {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}

// subtract returns the members of list not in set, as a fresh slice
// preserving list order.
func subtract(list []graph.ID, set map[graph.ID]bool) []graph.ID {
	out := make([]graph.ID, 0, len(list))
	for _, id := range list {
		if !set[id] {
			out = append(out, id)
		}
	}
	return out
}
