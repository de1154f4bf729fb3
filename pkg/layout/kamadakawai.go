package layout

import (
	"math"

	"github.com/gandergraph/gander/pkg/graph"
	"github.com/gandergraph/gander/pkg/graph/traverse"
)

// KamadaKawai lays the graph out by minimizing spring energy over
// ideal pairwise distances. Hop distances come from all-pairs BFS; the
// ideal length of the spring between two nodes is their hop distance
// scaled so the farthest observed pair maps to unit length, with
// strength 1/d^2. Unreachable pairs act as if one hop farther than the
// farthest reachable pair, which keeps disconnected components nearby
// instead of flinging them apart.
//
// Each iteration sweeps all nodes, moving one node at a time to the
// position that minimizes its own spring energy against the rest, and
// stops once the mean gradient magnitude falls below
// Options.Tolerance or the budget runs out. Initial positions are the
// circular layout, so the result is deterministic.
func KamadaKawai(g *graph.Graph, opts Options, report func(float64)) (map[graph.ID]graph.Point, error) {
	opts = opts.withDefaults()
	if pos, done := trivial(g, opts); done {
		emit(report, 1)
		return pos, nil
	}

	ids := g.Nodes()
	n := len(ids)

	hops := traverse.AllPairs(g)
	maxDist := 0
	for _, row := range hops {
		for _, d := range row {
			if d > maxDist {
				maxDist = d
			}
		}
	}
	farther := maxDist + 1
	scaleBase := maxDist
	if scaleBase < 1 {
		scaleBase = 1
	}
	springK := 1 / float64(scaleBase)

	// Dense ideal-length and strength matrices.
	length := make([][]float64, n)
	strength := make([][]float64, n)
	for i, a := range ids {
		length[i] = make([]float64, n)
		strength[i] = make([]float64, n)
		row := hops[a]
		for j, b := range ids {
			if i == j {
				continue
			}
			d, ok := row[b]
			if !ok {
				d = farther
			}
			length[i][j] = springK * float64(d)
			strength[i][j] = 1 / float64(d*d)
		}
	}

	px := make([]float64, n)
	py := make([]float64, n)
	step := 2 * math.Pi / float64(n)
	for i := range px {
		px[i] = math.Cos(step * float64(i))
		py[i] = math.Sin(step * float64(i))
	}

	iters := opts.iterations(DefaultStressIterations)
	for iter := 0; iter < iters; iter++ {
		// One node at a time: the energy-minimizing position against
		// fixed neighbors is the strength-weighted mean of each other
		// node offset to its ideal distance.
		for i := 0; i < n; i++ {
			var numX, numY, den float64
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				ddx := px[i] - px[j]
				ddy := py[i] - py[j]
				d := math.Hypot(ddx, ddy)
				if d < 1e-9 {
					d = 1e-9
				}
				s := strength[i][j]
				numX += s * (px[j] + length[i][j]*ddx/d)
				numY += s * (py[j] + length[i][j]*ddy/d)
				den += s
			}
			if den > 0 {
				px[i] = numX / den
				py[i] = numY / den
			}
		}

		aggregate := 0.0
		for i := 0; i < n; i++ {
			var gx, gy float64
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				ddx := px[i] - px[j]
				ddy := py[i] - py[j]
				d := math.Hypot(ddx, ddy)
				if d < 1e-9 {
					d = 1e-9
				}
				f := strength[i][j] * (1 - length[i][j]/d)
				gx += f * ddx
				gy += f * ddy
			}
			aggregate += math.Hypot(gx, gy)
		}

		emit(report, float64(iter+1)/float64(iters))
		if aggregate/float64(n) < opts.Tolerance {
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
