package layout

import (
	"math"

	"github.com/gandergraph/gander/pkg/graph"
)

// Repulsion degenerates as nodes coincide; distances are floored.
const minSeparation = 0.01

// FruchtermanReingold computes a force-directed layout. Every node
// pair repels with magnitude k^2/d while edges attract their
// endpoints with magnitude w*d^2/k, where k is the optimal distance
// (sqrt(1/n) unless Options.OptimalDistance overrides it). Per-node
// displacement is clamped by a temperature that cools linearly to
// zero over the iteration budget, and the loop stops early once the
// mean displacement falls below Options.Tolerance.
//
// Initial positions are seeded random, so a fixed seed reproduces the
// layout exactly.
func FruchtermanReingold(g *graph.Graph, opts Options, report func(float64)) (map[graph.ID]graph.Point, error) {
	opts = opts.withDefaults()
	if pos, done := trivial(g, opts); done {
		emit(report, 1)
		return pos, nil
	}

	ids := g.Nodes()
	n := len(ids)
	index := make(map[graph.ID]int, n)
	for i, id := range ids {
		index[id] = i
	}

	k := opts.OptimalDistance
	if k <= 0 {
		k = math.Sqrt(1 / float64(n))
	}

	// Weighted edges, deduplicated through the adjacency.
	type spring struct {
		a, b   int
		weight float64
	}
	var springs []spring
	for i, id := range ids {
		for _, nb := range g.Neighbors(id) {
			if j := index[nb]; i < j {
				w, _ := g.Weight(id, nb)
				springs = append(springs, spring{a: i, b: j, weight: w})
			}
		}
	}

	rng := newRNG(opts.Seed)
	px := make([]float64, n)
	py := make([]float64, n)
	for i := range px {
		px[i] = rng.Float64() - 0.5
		py[i] = rng.Float64() - 0.5
	}

	iters := opts.iterations(DefaultForceIterations)
	temp := 0.1
	cool := temp / float64(iters+1)

	dx := make([]float64, n)
	dy := make([]float64, n)
	for iter := 0; iter < iters; iter++ {
		for i := range dx {
			dx[i] = 0
			dy[i] = 0
		}

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				ddx := px[i] - px[j]
				ddy := py[i] - py[j]
				d := math.Hypot(ddx, ddy)
				if d < minSeparation {
					d = minSeparation
				}
				// Repulsion k^2/d along the unit vector.
				f := k * k / (d * d)
				dx[i] += ddx * f
				dy[i] += ddy * f
				dx[j] -= ddx * f
				dy[j] -= ddy * f
			}
		}

		for _, s := range springs {
			ddx := px[s.a] - px[s.b]
			ddy := py[s.a] - py[s.b]
			d := math.Hypot(ddx, ddy)
			if d < minSeparation {
				d = minSeparation
			}
			// Attraction w*d^2/k along the unit vector.
			f := s.weight * d / k
			dx[s.a] -= ddx * f
			dy[s.a] -= ddy * f
			dx[s.b] += ddx * f
			dy[s.b] += ddy * f
		}

		totalMoved := 0.0
		for i := 0; i < n; i++ {
			d := math.Hypot(dx[i], dy[i])
			if d == 0 {
				continue
			}
			move := math.Min(d, temp) / d
			px[i] += dx[i] * move
			py[i] += dy[i] * move
			totalMoved += math.Min(d, temp)
		}

		temp -= cool
		emit(report, float64(iter+1)/float64(iters))
		if totalMoved/float64(n) < opts.Tolerance {
			break
		}
	}

	pos := make(map[graph.ID]graph.Point, n)
	for i, id := range ids {
		pos[id] = graph.Point{X: px[i], Y: py[i]}
	}
	rescale(pos, opts)
	emit(report, 1)
	return pos, nil
}
