package engine

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gandergraph/gander/pkg/cache"
	"github.com/gandergraph/gander/pkg/dispatch"
	"github.com/gandergraph/gander/pkg/graph"
	"github.com/gandergraph/gander/pkg/observability"
)

// Options configures an engine. The zero value is usable: four
// workers, no task timeout, caching disabled.
type Options struct {
	// Workers is the number of tasks that may run at once.
	Workers int
	// DefaultTimeout applies to requests without their own budget.
	// Zero means no limit.
	DefaultTimeout time.Duration
	// ResultTTL bounds how long computed results stay cached. Zero
	// selects cache.DefaultTTL.
	ResultTTL time.Duration
	// Cache stores computed results. Nil disables caching.
	Cache cache.Cache
	// Keyer derives result cache keys. Nil selects the default.
	Keyer cache.Keyer
	// Logger defaults to log.Default.
	Logger *log.Logger
}

// Engine executes analytics requests against a worker pool with
// result caching.
//
// The Engine is stateless except for the cache, the pool, and the
// logger. Multiple goroutines can safely share one Engine.
type Engine struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	pool *dispatch.Pool
	ttl  time.Duration
	wg   sync.WaitGroup
}

// New creates an engine with every builtin algorithm registered.
func New(opts Options) *Engine {
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	ttl := opts.ResultTTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Engine{
		Cache:  opts.Cache,
		Keyer:  opts.Keyer,
		Logger: opts.Logger,
		pool: dispatch.New(builtin(), dispatch.Options{
			Workers:        opts.Workers,
			DefaultTimeout: opts.DefaultTimeout,
			Logger:         opts.Logger,
		}),
		ttl: ttl,
	}
}

// Request names one computation over one graph.
type Request struct {
	// Module and Function select the algorithm, e.g. "stats" and
	// "degree".
	Module   string
	Function string

	// Graph is the input graph in wire form.
	Graph graph.Data

	// Nodes restricts per-node statistics to the listed ids. Nil
	// means every node. Order does not affect the cache key.
	Nodes []graph.ID

	// Options carries algorithm options as loose JSON values.
	Options map[string]any

	// OnProgress observes monotone progress. Successful requests
	// deliver a final 1, cache hits included.
	OnProgress func(float64)

	// Timeout overrides the engine default. Negative disables the
	// budget.
	Timeout time.Duration

	// Refresh skips the cache read; the result is still stored.
	Refresh bool

	// RetryTimeout resubmits once when the first attempt times out.
	// Only the synchronous Run variants honor it, and only for
	// timeouts, never for deterministic failures.
	RetryTimeout bool

	// TaskID overrides the generated task id.
	TaskID string
}

// Name returns "module/function".
func (r Request) Name() string { return r.Module + "/" + r.Function }

func (r Request) task() dispatch.Task {
	return dispatch.Task{
		ID:       r.TaskID,
		Module:   r.Module,
		Function: r.Function,
		Args: dispatch.Args{
			Graph:   r.Graph,
			Nodes:   r.Nodes,
			Options: r.Options,
		},
	}
}

func (e *Engine) resultKey(req Request) string {
	var nodes []string
	if req.Nodes != nil {
		nodes = make([]string, len(req.Nodes))
		for i, id := range req.Nodes {
			nodes[i] = string(id)
		}
	}
	return e.Keyer.ResultKey(req.Graph.Hash(), req.Name(), cache.ResultKeyOpts{
		Nodes:   nodes,
		Options: req.Options,
	})
}

// SubmitWithCacheInfo queues a request and returns its handle plus
// cache hit info. A hit returns an already settled handle without
// consuming a worker slot. The only synchronous failures are an
// unknown algorithm and a closed engine.
func (e *Engine) SubmitWithCacheInfo(ctx context.Context, req Request) (*dispatch.Handle, bool, error) {
	key := e.resultKey(req)

	// Try cache first (unless refresh requested).
	if !req.Refresh {
		if data, hit, err := e.Cache.Get(ctx, key); err == nil && hit {
			var res dispatch.Result
			if json.Unmarshal(data, &res) == nil && res.Kind != "" {
				observability.Cache().OnCacheHit(ctx, "result")
				h := dispatch.Settled(req.task(), res, req.OnProgress)
				hooks := observability.Task()
				hooks.OnTaskSubmit(ctx, h.ID(), h.Name())
				hooks.OnTaskSettle(ctx, h.ID(), h.Name(), string(dispatch.StateCompleted), 0, nil)
				e.Logger.Debug("result cache hit", "task", h.ID(), "name", h.Name())
				return h, true, nil
			}
			// If deserialization fails, fall through to recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	h, err := e.pool.Submit(ctx, req.task(), dispatch.SubmitOptions{
		OnProgress: req.OnProgress,
		Timeout:    req.Timeout,
	})
	if err != nil {
		return nil, false, err
	}
	observability.Task().OnTaskSubmit(ctx, h.ID(), h.Name())
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.finalize(ctx, h, key)
	}()
	return h, false, nil
}

// Submit is a convenience wrapper that calls SubmitWithCacheInfo and
// discards the cache hit info.
func (e *Engine) Submit(ctx context.Context, req Request) (*dispatch.Handle, error) {
	h, _, err := e.SubmitWithCacheInfo(ctx, req)
	return h, err
}

// finalize waits for a pool-run task to settle, emits the settle
// hook, and stores successful results. The cache write outlives
// caller cancellation.
func (e *Engine) finalize(ctx context.Context, h *dispatch.Handle, key string) {
	start := time.Now()
	<-h.Done()
	res, err := h.Result()
	observability.Task().OnTaskSettle(ctx, h.ID(), h.Name(), string(h.State()), time.Since(start), err)
	if err != nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	if data, merr := json.Marshal(res); merr == nil {
		if e.Cache.Set(bg, key, data, e.ttl) == nil {
			observability.Cache().OnCacheSet(bg, "result", len(data))
		}
	}
}

// RunWithCacheInfo executes a request synchronously and returns cache
// hit info. With RetryTimeout set, a timed out attempt is resubmitted
// once before the error is surfaced.
func (e *Engine) RunWithCacheInfo(ctx context.Context, req Request) (dispatch.Result, bool, error) {
	h, hit, err := e.SubmitWithCacheInfo(ctx, req)
	if err != nil {
		return dispatch.Result{}, false, err
	}
	res, err := h.Await(ctx)
	if err != nil && req.RetryTimeout && h.State() == dispatch.StateTimedOut {
		e.Logger.Warn("task timed out, retrying once", "task", h.ID(), "name", h.Name())
		retry := req
		retry.RetryTimeout = false
		retry.TaskID = ""
		h, _, err = e.SubmitWithCacheInfo(ctx, retry)
		if err != nil {
			return dispatch.Result{}, false, err
		}
		res, err = h.Await(ctx)
	}
	return res, hit, err
}

// Run is a convenience wrapper that calls RunWithCacheInfo and
// discards the cache hit info.
func (e *Engine) Run(ctx context.Context, req Request) (dispatch.Result, error) {
	res, _, err := e.RunWithCacheInfo(ctx, req)
	return res, err
}

// Register adds a custom compute function under module/function,
// wired with the same start hook the builtins carry. Registered
// extensions dispatch like builtins but do not appear in the static
// catalog.
func (e *Engine) Register(module, function string, fn dispatch.ComputeFunc) error {
	return e.pool.Registry().Register(module, function, traced(module+"/"+function, fn))
}

// Stats reports pool occupancy.
func (e *Engine) Stats() dispatch.PoolStats { return e.pool.Stats() }

// Close shuts down the pool, cancelling outstanding tasks, waits for
// pending cache writes, then releases the cache.
func (e *Engine) Close() error {
	e.pool.Close()
	e.wg.Wait()
	if e.Cache != nil {
		return e.Cache.Close()
	}
	return nil
}
