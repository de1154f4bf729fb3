package stats

import (
	"gonum.org/v1/gonum/floats"

	"github.com/gandergraph/gander/pkg/graph"
)

// EigenvectorOptions tunes the power iteration. Zero values select the
// package defaults.
type EigenvectorOptions struct {
	MaxIterations int
	Tolerance     float64
}

func (o EigenvectorOptions) withDefaults() EigenvectorOptions {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}

// Eigenvector returns eigenvector centrality computed by power
// iteration over the weighted adjacency. Scores start uniform at 1/n;
// each pass adds the weighted sum of neighbor scores to a node's own
// score and renormalizes the vector to unit L2 length. Keeping the
// own-score term makes the iteration converge on bipartite graphs,
// where the pure adjacency walk oscillates. Iteration stops when the
// L1 delta between passes drops below the tolerance or the iteration
// budget is exhausted, whichever comes first.
//
// Edgeless graphs converge immediately to uniform scores. A non-nil
// nodes subset filters the returned map; the computation itself is
// always global.
func Eigenvector(g *graph.Graph, nodes []graph.ID, opts EigenvectorOptions, report func(float64)) map[graph.ID]float64 {
	opts = opts.withDefaults()
	ids := g.Nodes()
	n := len(ids)
	if n == 0 {
		return map[graph.ID]float64{}
	}

	index := make(map[graph.ID]int, n)
	for i, id := range ids {
		index[id] = i
	}

	// Flatten the adjacency once; the iteration sweeps it every pass.
	type arc struct {
		to     int
		weight float64
	}
	arcs := make([][]arc, n)
	for i, id := range ids {
		for _, nb := range g.Neighbors(id) {
			w, _ := g.Weight(id, nb)
			arcs[i] = append(arcs[i], arc{to: index[nb], weight: w})
		}
	}

	current := make([]float64, n)
	next := make([]float64, n)
	for i := range current {
		current[i] = 1 / float64(n)
	}

	for pass := 0; pass < opts.MaxIterations; pass++ {
		copy(next, current)
		for i := range arcs {
			for _, a := range arcs[i] {
				next[a.to] += current[i] * a.weight
			}
		}

		norm := floats.Norm(next, 2)
		if norm == 0 {
			// Contributions cancelled exactly; nothing left to iterate.
			for i := range current {
				current[i] = 0
			}
			break
		}
		floats.Scale(1/norm, next)

		delta := floats.Distance(current, next, 1)
		current, next = next, current
		emit(report, float64(pass+1)/float64(opts.MaxIterations))
		if delta < opts.Tolerance {
			break
		}
	}
	emit(report, 1)

	score := make(map[graph.ID]float64, n)
	for i, id := range ids {
		score[id] = current[i]
	}
	return filterScores(score, nodes)
}
