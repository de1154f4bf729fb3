package dispatch

import (
	"github.com/gandergraph/gander/pkg/community"
	"github.com/gandergraph/gander/pkg/graph"
	"github.com/gandergraph/gander/pkg/stats"
)

// Kind discriminates the payload variants a compute function can
// produce. Exactly one payload field of [Result] is populated for a
// given kind.
type Kind string

const (
	// KindValues is a per-node metric map (degree, centrality, ...).
	KindValues Kind = "values"
	// KindValue is a single graph-level scalar (density, ...).
	KindValue Kind = "value"
	// KindPositions is a per-node 2D coordinate map from a layout.
	KindPositions Kind = "positions"
	// KindComponents is a connected-components summary.
	KindComponents Kind = "components"
	// KindCommunities is a community detection result.
	KindCommunities Kind = "communities"
	// KindCliques is a list of node groups (maximal cliques).
	KindCliques Kind = "cliques"
)

// Result is the tagged union crossing back from an isolate. The Kind
// tag tells consumers which field carries the payload; everything
// else stays at its zero value and is dropped from JSON.
type Result struct {
	Kind        Kind                     `json:"kind"`
	Values      map[graph.ID]float64     `json:"values,omitempty"`
	Value       float64                  `json:"value,omitempty"`
	Positions   map[graph.ID]graph.Point `json:"positions,omitempty"`
	Components  *stats.ComponentSummary  `json:"components,omitempty"`
	Communities *community.Result        `json:"communities,omitempty"`
	Cliques     [][]graph.ID             `json:"cliques,omitempty"`
}

// ValuesResult wraps a per-node metric map.
func ValuesResult(values map[graph.ID]float64) Result {
	return Result{Kind: KindValues, Values: values}
}

// ValueResult wraps a graph-level scalar.
func ValueResult(value float64) Result {
	return Result{Kind: KindValue, Value: value}
}

// PositionsResult wraps a layout's coordinate map.
func PositionsResult(positions map[graph.ID]graph.Point) Result {
	return Result{Kind: KindPositions, Positions: positions}
}

// ComponentsResult wraps a connected-components summary.
func ComponentsResult(summary stats.ComponentSummary) Result {
	return Result{Kind: KindComponents, Components: &summary}
}

// CommunitiesResult wraps a community detection result.
func CommunitiesResult(res community.Result) Result {
	return Result{Kind: KindCommunities, Communities: &res}
}

// CliquesResult wraps a list of node groups.
func CliquesResult(cliques [][]graph.ID) Result {
	return Result{Kind: KindCliques, Cliques: cliques}
}
