package stats

import (
	"github.com/gandergraph/gander/pkg/graph"
)

// Defaults for iterative algorithms.
const (
	// DefaultMaxIterations bounds power-iteration style loops.
	DefaultMaxIterations = 100
	// DefaultTolerance is the convergence threshold for iterative
	// algorithms, measured as the L1 delta between passes.
	DefaultTolerance = 1e-6
	// DefaultSeed seeds pseudo-random initialization so repeated runs
	// are reproducible.
	DefaultSeed = 1
)

// ComponentSummary is the graph-level connected-components result.
type ComponentSummary struct {
	Count      int              `json:"count"`
	Membership map[graph.ID]int `json:"membership"`
	Sizes      map[int]int      `json:"sizes,omitempty"`
}

// targets resolves the node subset convention: nil means every node in
// the graph. The requested slice is used as given, so unknown ids flow
// through to the lenient per-node semantics.
func targets(g *graph.Graph, nodes []graph.ID) []graph.ID {
	if nodes == nil {
		return g.Nodes()
	}
	return nodes
}

// emit invokes the progress callback if one is set.
func emit(report func(float64), fraction float64) {
	if report != nil {
		report(fraction)
	}
}

// stride returns the reporting interval that keeps progress callbacks
// at roughly one-percent granularity over n steps.
func stride(n int) int {
	s := n / 100
	if s < 1 {
		return 1
	}
	return s
}
