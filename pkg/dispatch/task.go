package dispatch

import (
	"context"
	"maps"
	"slices"

	"github.com/gandergraph/gander/pkg/graph"
)

// Args carries everything a compute function may read. The pool deep
// copies the whole struct before handing it to the isolate, so a
// function can mutate its copy freely and concurrent tasks over the
// same graph never share state.
type Args struct {
	Graph   graph.Data     `json:"graph"`
	Nodes   []graph.ID     `json:"nodes,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

// Clone returns a deep copy sharing no mutable memory with the
// receiver. Options values are cloned structurally for the shapes
// JSON decoding produces (nested maps, slices, scalars).
func (a Args) Clone() Args {
	return Args{
		Graph:   a.Graph.Clone(),
		Nodes:   slices.Clone(a.Nodes),
		Options: cloneOptions(a.Options),
	}
}

func cloneOptions(opts map[string]any) map[string]any {
	if opts == nil {
		return nil
	}
	out := make(map[string]any, len(opts))
	for k, v := range opts {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return cloneOptions(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	case map[graph.ID]graph.Point:
		return maps.Clone(tv)
	case []graph.ID:
		return slices.Clone(tv)
	default:
		// Scalars (and anything else immutable by convention).
		return v
	}
}

// Task names a compute function and binds its arguments. The zero ID
// is filled with a fresh UUID at submission.
type Task struct {
	ID       string `json:"id"`
	Module   string `json:"module"`
	Function string `json:"function"`
	Args     Args   `json:"args"`
}

// Name returns the registry key for the task, "module/function".
func (t Task) Name() string {
	return t.Module + "/" + t.Function
}

type taskIDKey struct{}

func withTaskID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, taskIDKey{}, id)
}

// TaskIDFromContext returns the id of the task the context was issued
// for, or "" outside a compute function.
func TaskIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(taskIDKey{}).(string)
	return id
}
