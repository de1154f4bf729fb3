package layout

import (
	"math"
	"math/rand/v2"

	"github.com/gandergraph/gander/pkg/errors"
	"github.com/gandergraph/gander/pkg/graph"
)

// Tuning defaults shared by the algorithms.
const (
	// DefaultScale is the half-width of the target square.
	DefaultScale = 1.0
	// DefaultSeed seeds randomized placement when no seed is given.
	DefaultSeed = 1
	// DefaultForceIterations bounds the Fruchterman-Reingold loop.
	DefaultForceIterations = 50
	// DefaultStressIterations bounds the Kamada-Kawai loop.
	DefaultStressIterations = 100
	// DefaultTolerance is the early-stop threshold for iterative
	// layouts: mean displacement for force-directed, mean gradient
	// magnitude for spring energy.
	DefaultTolerance = 1e-4
	// DefaultResolution controls how tightly the spiral winds.
	DefaultResolution = 0.35
)

// Options carries the knobs shared across layout algorithms. Every
// algorithm honors Scale, Center and, where it draws randomness, Seed;
// the remaining fields apply only where documented and are ignored
// elsewhere. The zero value selects all defaults.
type Options struct {
	Scale      float64     // half-width of the output square
	Center     graph.Point // center of the output square
	Seed       uint64      // PRNG seed for randomized placement
	Iterations int         // budget for iterative layouts
	Tolerance  float64     // early-stop threshold for iterative layouts
	Resolution float64     // spiral winding tightness

	// OptimalDistance is the force-directed ideal edge length; zero
	// derives sqrt(1/n) from the node count.
	OptimalDistance float64

	// Groups is an explicit ordered partition for Shell, Bipartite,
	// Multipartite and BFSLayers. When set it must cover every node
	// exactly once; when empty each algorithm derives its own.
	Groups [][]graph.ID

	// Root is the BFSLayers start node. Empty selects the lowest id.
	Root graph.ID

	// Positions supplies precomputed per-node coordinates for
	// Spectral.
	Positions map[graph.ID]graph.Point
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Resolution <= 0 {
		o.Resolution = DefaultResolution
	}
	return o
}

func (o Options) iterations(fallback int) int {
	if o.Iterations > 0 {
		return o.Iterations
	}
	return fallback
}

// trivial handles the explicit base cases every algorithm shares: no
// nodes yields an empty map, one node sits exactly at Center.
func trivial(g *graph.Graph, opts Options) (map[graph.ID]graph.Point, bool) {
	switch g.NodeCount() {
	case 0:
		return map[graph.ID]graph.Point{}, true
	case 1:
		return map[graph.ID]graph.Point{g.Nodes()[0]: opts.Center}, true
	}
	return nil, false
}

// rescale maps raw positions into [-Scale, Scale]^2 around Center:
// centroid-subtract, divide by the largest absolute coordinate, then
// scale and offset. Coincident positions all land exactly on Center.
func rescale(pos map[graph.ID]graph.Point, opts Options) {
	if len(pos) == 0 {
		return
	}

	var cx, cy float64
	for _, p := range pos {
		cx += p.X
		cy += p.Y
	}
	n := float64(len(pos))
	cx /= n
	cy /= n

	maxAbs := 0.0
	for id, p := range pos {
		p.X -= cx
		p.Y -= cy
		pos[id] = p
		if a := math.Abs(p.X); a > maxAbs {
			maxAbs = a
		}
		if a := math.Abs(p.Y); a > maxAbs {
			maxAbs = a
		}
	}

	for id, p := range pos {
		if maxAbs > 0 {
			p.X = p.X / maxAbs * opts.Scale
			p.Y = p.Y / maxAbs * opts.Scale
		} else {
			p.X, p.Y = 0, 0
		}
		p.X += opts.Center.X
		p.Y += opts.Center.Y
		pos[id] = p
	}
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func emit(report func(float64), fraction float64) {
	if report != nil {
		report(fraction)
	}
}

// resolveGroups returns the explicit partition when one is given,
// validating that it covers every node exactly once, and falls back to
// the algorithm's own grouping otherwise.
func resolveGroups(g *graph.Graph, opts Options, fallback func() [][]graph.ID) ([][]graph.ID, error) {
	if len(opts.Groups) == 0 {
		return fallback(), nil
	}

	seen := make(map[graph.ID]bool, g.NodeCount())
	for _, group := range opts.Groups {
		for _, id := range group {
			if !g.HasNode(id) {
				return nil, errors.New(errors.ErrCodeInvalidOptions, "group references unknown node %q", string(id))
			}
			if seen[id] {
				return nil, errors.New(errors.ErrCodeInvalidOptions, "node %q appears in more than one group", string(id))
			}
			seen[id] = true
		}
	}
	if len(seen) != g.NodeCount() {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "groups cover %d of %d nodes", len(seen), g.NodeCount())
	}
	return opts.Groups, nil
}
