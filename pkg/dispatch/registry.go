package dispatch

import (
	"context"
	"slices"
	"sync"

	"github.com/gandergraph/gander/pkg/errors"
)

// ComputeFunc is the unit of work a pool can run. It receives a
// private copy of the task arguments and a report callback for
// progress in [0, 1]. Implementations should return promptly once ctx
// is cancelled; the pool tolerates ones that do not.
type ComputeFunc func(ctx context.Context, args Args, report func(float64)) (Result, error)

// Registry is the explicit name table a pool dispatches through.
// Populate it before handing it to [New]; Register is safe for
// concurrent use but nothing re-resolves names after submission.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]ComputeFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]ComputeFunc)}
}

// Register binds module/function to fn. Registering the same name
// twice is a programming error and is rejected rather than silently
// replaced.
func (r *Registry) Register(module, function string, fn ComputeFunc) error {
	if module == "" || function == "" || fn == nil {
		return errors.New(errors.ErrCodeInvalidAlgorithm, "registry entry needs module, function, and a compute function")
	}
	key := module + "/" + function
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[key]; ok {
		return errors.New(errors.ErrCodeInvalidAlgorithm, "compute function %q registered twice", key)
	}
	r.funcs[key] = fn
	return nil
}

// Lookup resolves a task name to its compute function.
func (r *Registry) Lookup(module, function string) (ComputeFunc, error) {
	key := module + "/" + function
	r.mu.RLock()
	fn, ok := r.funcs[key]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidAlgorithm, "unknown compute function %q", key)
	}
	return fn, nil
}

// Names lists every registered module/function key in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for key := range r.funcs {
		names = append(names, key)
	}
	slices.Sort(names)
	return names
}
