package engine

import (
	"context"

	"github.com/gandergraph/gander/pkg/community"
	"github.com/gandergraph/gander/pkg/dispatch"
	"github.com/gandergraph/gander/pkg/errors"
	"github.com/gandergraph/gander/pkg/graph"
)

// Typed conveniences for the common result shapes. Each runs
// synchronously with the engine defaults; callers needing progress,
// budgets, or cache control use [Engine.Run] with a full [Request].

// NodeStats runs a per-node statistic and returns its value map.
func (e *Engine) NodeStats(ctx context.Context, function string, g graph.Data, nodes []graph.ID, options map[string]any) (map[graph.ID]float64, error) {
	res, err := e.Run(ctx, Request{Module: "stats", Function: function, Graph: g, Nodes: nodes, Options: options})
	if err != nil {
		return nil, err
	}
	if res.Kind != dispatch.KindValues {
		return nil, errors.New(errors.ErrCodeInvalidAlgorithm, "stats/%s yields %s, not per-node values", function, res.Kind)
	}
	return res.Values, nil
}

// GraphStat runs a graph-level statistic and returns its scalar.
func (e *Engine) GraphStat(ctx context.Context, function string, g graph.Data, options map[string]any) (float64, error) {
	res, err := e.Run(ctx, Request{Module: "stats", Function: function, Graph: g, Options: options})
	if err != nil {
		return 0, err
	}
	if res.Kind != dispatch.KindValue {
		return 0, errors.New(errors.ErrCodeInvalidAlgorithm, "stats/%s yields %s, not a scalar", function, res.Kind)
	}
	return res.Value, nil
}

// Layout runs a layout algorithm and returns node positions.
func (e *Engine) Layout(ctx context.Context, function string, g graph.Data, options map[string]any) (map[graph.ID]graph.Point, error) {
	res, err := e.Run(ctx, Request{Module: "layout", Function: function, Graph: g, Options: options})
	if err != nil {
		return nil, err
	}
	if res.Kind != dispatch.KindPositions {
		return nil, errors.New(errors.ErrCodeInvalidAlgorithm, "layout/%s yields %s, not positions", function, res.Kind)
	}
	return res.Positions, nil
}

// Communities runs a community detector.
func (e *Engine) Communities(ctx context.Context, function string, g graph.Data, options map[string]any) (*community.Result, error) {
	res, err := e.Run(ctx, Request{Module: "community", Function: function, Graph: g, Options: options})
	if err != nil {
		return nil, err
	}
	if res.Kind != dispatch.KindCommunities || res.Communities == nil {
		return nil, errors.New(errors.ErrCodeInvalidAlgorithm, "community/%s yielded no communities", function)
	}
	return res.Communities, nil
}
