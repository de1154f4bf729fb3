package stats

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/gandergraph/gander/pkg/graph"
)

// LaplacianOptions tunes the spectral coordinate approximation. Zero
// values select the package defaults.
type LaplacianOptions struct {
	MaxIterations int
	Tolerance     float64
	Seed          uint64
}

func (o LaplacianOptions) withDefaults() LaplacianOptions {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return o
}

// Laplacian approximates two-dimensional spectral coordinates from the
// weighted graph Laplacian L = D - A. The x and y axes are the
// approximate 2nd- and 3rd-smallest eigenvectors of L, obtained by
// power iteration on the spectrally shifted operator sI - L (s bounds
// the largest eigenvalue) with deflation against the constant vector
// and each previously found axis. This is an approximation, not an
// exact eigendecomposition.
//
// Graphs with fewer than three nodes have no meaningful small
// eigenvectors; their coordinates fall back to seeded random values in
// the unit square. The result is deterministic for a given seed.
func Laplacian(g *graph.Graph, opts LaplacianOptions, report func(float64)) map[graph.ID]graph.Point {
	opts = opts.withDefaults()
	ids := g.Nodes()
	n := len(ids)
	coords := make(map[graph.ID]graph.Point, n)
	if n == 0 {
		emit(report, 1)
		return coords
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	if n < 3 {
		for _, id := range ids {
			coords[id] = graph.Point{X: rng.Float64(), Y: rng.Float64()}
		}
		emit(report, 1)
		return coords
	}

	laplacian, shift := buildLaplacian(g, ids)

	// The constant vector is the exact smallest eigenvector of L;
	// deflating it first steers iteration to the next-smallest modes.
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	floats.Scale(1/floats.Norm(ones, 2), ones)

	total := 2 * opts.MaxIterations
	progress := func(done int) {
		emit(report, float64(done)/float64(total))
	}

	x := smallestMode(laplacian, shift, [][]float64{ones}, rng, opts, progress, 0)
	y := smallestMode(laplacian, shift, [][]float64{ones, x}, rng, opts, progress, opts.MaxIterations)

	for i, id := range ids {
		coords[id] = graph.Point{X: x[i], Y: y[i]}
	}
	emit(report, 1)
	return coords
}

// buildLaplacian assembles L = D - A and returns it with a spectral
// shift s >= the largest eigenvalue (twice the maximum weighted
// degree, by the Gershgorin bound).
func buildLaplacian(g *graph.Graph, ids []graph.ID) (*mat.SymDense, float64) {
	n := len(ids)
	index := make(map[graph.ID]int, n)
	for i, id := range ids {
		index[id] = i
	}

	laplacian := mat.NewSymDense(n, nil)
	maxDegree := 0.0
	for i, id := range ids {
		degree := 0.0
		for _, nb := range g.Neighbors(id) {
			w, _ := g.Weight(id, nb)
			degree += w
			if j := index[nb]; i < j {
				laplacian.SetSym(i, j, -w)
			}
		}
		laplacian.SetSym(i, i, degree)
		if degree > maxDegree {
			maxDegree = degree
		}
	}
	shift := 2 * maxDegree
	if shift == 0 {
		shift = 1
	}
	return laplacian, shift
}

// smallestMode power-iterates v ← (sI - L)v, orthogonalizing against
// the deflated vectors every pass, which converges toward the smallest
// L-eigenvector not spanned by them.
func smallestMode(laplacian *mat.SymDense, shift float64, deflate [][]float64, rng *rand.Rand, opts LaplacianOptions, progress func(int), done int) []float64 {
	n := laplacian.SymmetricDim()
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.Float64() - 0.5
	}
	orthonormalize(v, deflate)

	lv := mat.NewVecDense(n, nil)
	next := make([]float64, n)
	for pass := 0; pass < opts.MaxIterations; pass++ {
		lv.MulVec(laplacian, mat.NewVecDense(n, v))
		for i := range next {
			next[i] = shift*v[i] - lv.AtVec(i)
		}
		if !orthonormalize(next, deflate) {
			// Degenerate direction; restart from fresh noise.
			for i := range next {
				next[i] = rng.Float64() - 0.5
			}
			orthonormalize(next, deflate)
		}

		delta := floats.Distance(v, next, 1)
		copy(v, next)
		progress(done + pass + 1)
		if delta < opts.Tolerance {
			break
		}
	}
	return v
}

// orthonormalize projects out the deflated directions and rescales to
// unit length. Returns false when the vector collapses to zero.
func orthonormalize(v []float64, deflate [][]float64) bool {
	for _, d := range deflate {
		floats.AddScaled(v, -floats.Dot(v, d), d)
	}
	norm := floats.Norm(v, 2)
	if norm == 0 {
		return false
	}
	floats.Scale(1/norm, v)
	return true
}
