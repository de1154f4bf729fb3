package engine

import (
	"context"
	"encoding/json"

	"github.com/gandergraph/gander/pkg/community"
	"github.com/gandergraph/gander/pkg/dispatch"
	"github.com/gandergraph/gander/pkg/errors"
	"github.com/gandergraph/gander/pkg/graph"
	"github.com/gandergraph/gander/pkg/layout"
	"github.com/gandergraph/gander/pkg/observability"
	"github.com/gandergraph/gander/pkg/stats"
)

// builtin returns a registry holding every algorithm the engine
// ships: the stats, layout, and community catalogs under their module
// names. Function ids match the catalog descriptors.
func builtin() *dispatch.Registry {
	r := dispatch.NewRegistry()
	add := func(module, id string, fn dispatch.ComputeFunc) {
		// The table is static, so a registration error is a bug.
		if err := r.Register(module, id, traced(module+"/"+id, fn)); err != nil {
			panic(err)
		}
	}

	add("stats", "degree", nodeValues(stats.Degree))
	add("stats", "ego_density", nodeValues(stats.EgoDensity))
	add("stats", "closeness", normalizedValues(stats.Closeness))
	add("stats", "betweenness", normalizedValues(stats.Betweenness))
	add("stats", "clustering", reportedValues(stats.Clustering))
	add("stats", "eigenvector", eigenvector)
	add("stats", "cliques", cliques)
	add("stats", "laplacian", laplacian)
	add("stats", "density", graphValue(stats.Density))
	add("stats", "average_degree", graphValue(stats.AverageDegree))
	add("stats", "average_clustering", reportedValue(stats.AverageClustering))
	add("stats", "average_path_length", reportedValue(stats.AveragePathLength))
	add("stats", "diameter", diameter)
	add("stats", "components", components)

	for _, l := range []struct {
		id string
		fn func(*graph.Graph, layout.Options, func(float64)) (map[graph.ID]graph.Point, error)
	}{
		{"random", layout.Random},
		{"circular", layout.Circular},
		{"spiral", layout.Spiral},
		{"shell", layout.Shell},
		{"spectral", layout.Spectral},
		{"fruchterman_reingold", layout.FruchtermanReingold},
		{"kamada_kawai", layout.KamadaKawai},
		{"bipartite", layout.Bipartite},
		{"multipartite", layout.Multipartite},
		{"bfs_layers", layout.BFSLayers},
	} {
		add("layout", l.id, positions(l.fn))
	}

	add("community", "louvain", louvain)

	return r
}

// traced wraps a compute function with the start hook. Submit and
// settle are recorded at the engine boundary; the start is only
// observable from inside the pool.
func traced(name string, fn dispatch.ComputeFunc) dispatch.ComputeFunc {
	return func(ctx context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
		observability.Task().OnTaskStart(ctx, dispatch.TaskIDFromContext(ctx), name)
		return fn(ctx, args, report)
	}
}

// decodeOptions maps loose JSON option values onto a typed options
// struct. Unknown keys are ignored; type mismatches surface as
// INVALID_OPTIONS.
func decodeOptions(raw map[string]any, out any) error {
	if len(raw) == 0 {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOptions, err, "encode options")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOptions, err, "decode options")
	}
	return nil
}

// nodeValues lifts a plain per-node statistic.
func nodeValues(fn func(*graph.Graph, []graph.ID) map[graph.ID]float64) dispatch.ComputeFunc {
	return func(_ context.Context, args dispatch.Args, _ func(float64)) (dispatch.Result, error) {
		return dispatch.ValuesResult(fn(graph.FromData(args.Graph), args.Nodes)), nil
	}
}

// reportedValues lifts a per-node statistic that reports progress.
func reportedValues(fn func(*graph.Graph, []graph.ID, func(float64)) map[graph.ID]float64) dispatch.ComputeFunc {
	return func(_ context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
		return dispatch.ValuesResult(fn(graph.FromData(args.Graph), args.Nodes, report)), nil
	}
}

// normalizedValues lifts a centrality with a normalization switch,
// read from the "normalized" option and defaulting to true.
func normalizedValues(fn func(*graph.Graph, []graph.ID, bool, func(float64)) map[graph.ID]float64) dispatch.ComputeFunc {
	return func(_ context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
		var o struct {
			Normalized *bool `json:"normalized"`
		}
		if err := decodeOptions(args.Options, &o); err != nil {
			return dispatch.Result{}, err
		}
		normalized := o.Normalized == nil || *o.Normalized
		return dispatch.ValuesResult(fn(graph.FromData(args.Graph), args.Nodes, normalized, report)), nil
	}
}

// graphValue lifts a plain graph-level statistic.
func graphValue(fn func(*graph.Graph) float64) dispatch.ComputeFunc {
	return func(_ context.Context, args dispatch.Args, _ func(float64)) (dispatch.Result, error) {
		return dispatch.ValueResult(fn(graph.FromData(args.Graph))), nil
	}
}

// reportedValue lifts a graph-level statistic that reports progress.
func reportedValue(fn func(*graph.Graph, func(float64)) float64) dispatch.ComputeFunc {
	return func(_ context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
		return dispatch.ValueResult(fn(graph.FromData(args.Graph), report)), nil
	}
}

// positions lifts a layout function, decoding its options from the
// request.
func positions(fn func(*graph.Graph, layout.Options, func(float64)) (map[graph.ID]graph.Point, error)) dispatch.ComputeFunc {
	return func(_ context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
		var opts layout.Options
		if err := decodeOptions(args.Options, &opts); err != nil {
			return dispatch.Result{}, err
		}
		pos, err := fn(graph.FromData(args.Graph), opts, report)
		if err != nil {
			return dispatch.Result{}, err
		}
		return dispatch.PositionsResult(pos), nil
	}
}

func eigenvector(_ context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
	var opts stats.EigenvectorOptions
	if err := decodeOptions(args.Options, &opts); err != nil {
		return dispatch.Result{}, err
	}
	return dispatch.ValuesResult(stats.Eigenvector(graph.FromData(args.Graph), args.Nodes, opts, report)), nil
}

func laplacian(_ context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
	var opts stats.LaplacianOptions
	if err := decodeOptions(args.Options, &opts); err != nil {
		return dispatch.Result{}, err
	}
	return dispatch.PositionsResult(stats.Laplacian(graph.FromData(args.Graph), opts, report)), nil
}

func cliques(_ context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
	return dispatch.CliquesResult(stats.Cliques(graph.FromData(args.Graph), report)), nil
}

func diameter(_ context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
	return dispatch.ValueResult(float64(stats.Diameter(graph.FromData(args.Graph), report))), nil
}

func components(_ context.Context, args dispatch.Args, _ func(float64)) (dispatch.Result, error) {
	return dispatch.ComponentsResult(stats.Components(graph.FromData(args.Graph))), nil
}

func louvain(_ context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
	var detector community.Louvain
	if err := decodeOptions(args.Options, &detector); err != nil {
		return dispatch.Result{}, err
	}
	return dispatch.CommunitiesResult(detector.Detect(graph.FromData(args.Graph), report)), nil
}
