package dispatch

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gandergraph/gander/pkg/errors"
)

// DefaultWorkers is the slot count used when [Options.Workers] is
// unset.
const DefaultWorkers = 4

// progressBuffer bounds the relay channel between an isolate and its
// supervisor. Sends never block: stale values are dropped instead.
const progressBuffer = 64

// Options configures a pool. The zero value is usable.
type Options struct {
	// Workers is the number of tasks that may run at once.
	Workers int
	// DefaultTimeout applies to tasks submitted without their own
	// budget. Zero means no limit.
	DefaultTimeout time.Duration
	// Logger defaults to log.Default.
	Logger *log.Logger
}

// SubmitOptions tunes a single submission.
type SubmitOptions struct {
	// OnProgress observes monotone progress in (0, 1]. It is called
	// from pool goroutines, never concurrently for one task, and a
	// successful task always delivers a final 1.
	OnProgress func(float64)
	// Timeout overrides the pool default. Negative disables the
	// budget entirely.
	Timeout time.Duration
}

// Pool runs registered compute functions on a fixed set of worker
// slots with an unbounded FIFO admission queue.
type Pool struct {
	registry       *Registry
	logger         *log.Logger
	workers        int
	defaultTimeout time.Duration

	mu      sync.Mutex
	queue   []*pending
	running map[*pending]struct{}
	idle    int
	closed  bool
	wg      sync.WaitGroup
}

type pending struct {
	task    Task
	handle  *Handle
	fn      ComputeFunc
	ctx     context.Context
	timeout time.Duration
}

type outcome struct {
	res Result
	err error
}

// New builds a pool dispatching through registry. A nil registry is
// replaced with an empty one, which rejects every submission until
// populated.
func New(registry *Registry, opts Options) *Pool {
	if registry == nil {
		registry = NewRegistry()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Pool{
		registry:       registry,
		logger:         logger,
		workers:        workers,
		defaultTimeout: opts.DefaultTimeout,
		running:        make(map[*pending]struct{}),
		idle:           workers,
	}
}

// Registry returns the name table the pool dispatches through.
func (p *Pool) Registry() *Registry { return p.registry }

// Submit queues a task and returns its future. It never blocks on
// worker availability; tasks start in submission order. The only
// synchronous failures are an unknown function name and a closed
// pool. ctx is inherited by the task, so cancelling it cancels the
// task.
func (p *Pool) Submit(ctx context.Context, task Task, opts SubmitOptions) (*Handle, error) {
	fn, err := p.registry.Lookup(task.Module, task.Function)
	if err != nil {
		return nil, err
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	// Private copy: the isolate owns this memory outright.
	task.Args = task.Args.Clone()

	if ctx == nil {
		ctx = context.Background()
	}
	taskCtx, cancel := context.WithCancel(ctx)
	h := newHandle(task, cancel, opts.OnProgress)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = p.defaultTimeout
	}
	if timeout < 0 {
		timeout = 0
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		cancel()
		return nil, errors.New(errors.ErrCodeUnavailable, "pool is closed")
	}
	p.queue = append(p.queue, &pending{task: task, handle: h, fn: fn, ctx: taskCtx, timeout: timeout})
	p.logger.Debug("task queued", "task", task.ID, "name", task.Name(), "queued", len(p.queue))
	p.dispatchLocked()
	p.mu.Unlock()
	return h, nil
}

// dispatchLocked starts queued tasks while slots are free. Callers
// hold p.mu.
func (p *Pool) dispatchLocked() {
	for !p.closed && p.idle > 0 && len(p.queue) > 0 {
		next := p.queue[0]
		p.queue = p.queue[1:]
		p.idle--
		p.running[next] = struct{}{}
		p.wg.Add(1)
		go p.supervise(next)
	}
}

// supervise owns one worker slot for the lifetime of one task. It
// relays progress, enforces the budget, and always releases the slot
// promptly: a stuck isolate is abandoned, not awaited.
func (p *Pool) supervise(t *pending) {
	defer func() {
		p.mu.Lock()
		delete(p.running, t)
		p.idle++
		p.dispatchLocked()
		p.mu.Unlock()
		p.wg.Done()
	}()

	h := t.handle
	// Release the task context whichever way the task settles; an
	// abandoned isolate observes this as cancellation.
	defer h.cancel()
	if t.ctx.Err() != nil || !h.setRunning() {
		h.finish(Result{}, errors.New(errors.ErrCodeCancelled, "task %s cancelled", h.id), StateCancelled)
		return
	}

	progCh := make(chan float64, progressBuffer)
	resCh := make(chan outcome, 1)
	start := time.Now()
	go p.isolate(t, progCh, resCh)

	var timeoutCh <-chan time.Time
	if t.timeout > 0 {
		timer := time.NewTimer(t.timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	for {
		select {
		case v := <-progCh:
			h.reportProgress(v)
		case out := <-resCh:
			p.drain(h, progCh)
			p.settle(h, out, start)
			return
		case <-timeoutCh:
			h.finish(Result{}, errors.New(errors.ErrCodeTimeout, "task %s exceeded its %s budget", h.id, t.timeout), StateTimedOut)
			p.logger.Warn("task timed out, worker replaced", "task", h.id, "name", h.name, "after", t.timeout)
			return
		case <-t.ctx.Done():
			h.finish(Result{}, errors.Wrap(errors.ErrCodeCancelled, t.ctx.Err(), "task %s cancelled", h.id), StateCancelled)
			p.logger.Debug("task cancelled", "task", h.id)
			return
		}
	}
}

// drain flushes progress already relayed before the outcome is
// applied, so in-order reports are not lost to select scheduling.
func (p *Pool) drain(h *Handle, progCh <-chan float64) {
	for {
		select {
		case v := <-progCh:
			h.reportProgress(v)
		default:
			return
		}
	}
}

func (p *Pool) settle(h *Handle, out outcome, start time.Time) {
	switch {
	case out.err == nil:
		h.finish(out.res, nil, StateCompleted)
		p.logger.Debug("task completed", "task", h.id, "name", h.name, "in", time.Since(start))
	case stderrors.Is(out.err, context.Canceled):
		h.finish(Result{}, errors.Wrap(errors.ErrCodeCancelled, out.err, "task %s cancelled", h.id), StateCancelled)
	case stderrors.Is(out.err, context.DeadlineExceeded):
		h.finish(Result{}, errors.Wrap(errors.ErrCodeTimeout, out.err, "task %s timed out", h.id), StateTimedOut)
	default:
		h.finish(Result{}, out.err, StateFailed)
		p.logger.Warn("task failed", "task", h.id, "name", h.name, "err", out.err)
	}
}

// isolate runs the compute function. A panic settles only this task,
// carrying the original message and stack. Both channels are written
// without blocking so an abandoned isolate can always exit.
func (p *Pool) isolate(t *pending, progCh chan<- float64, resCh chan<- outcome) {
	defer func() {
		if r := recover(); r != nil {
			resCh <- outcome{err: &errors.WorkerError{
				TaskID: t.handle.id,
				Reason: fmt.Sprint(r),
				Stack:  string(debug.Stack()),
			}}
		}
	}()
	report := func(v float64) {
		select {
		case progCh <- v:
		default:
		}
	}
	res, err := t.fn(withTaskID(t.ctx, t.task.ID), t.task.Args, report)
	resCh <- outcome{res: res, err: err}
}

// PoolStats is a point-in-time occupancy snapshot.
type PoolStats struct {
	Workers int `json:"workers"`
	Active  int `json:"active"`
	Queued  int `json:"queued"`
}

// Stats reports current occupancy.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{
		Workers: p.workers,
		Active:  len(p.running),
		Queued:  len(p.queue),
	}
}

// Close rejects further submissions, cancels queued and running
// tasks, and waits for the worker slots to settle. Abandoned isolates
// from earlier timeouts may still be winding down; they hold no pool
// state.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	queued := p.queue
	p.queue = nil
	active := make([]*pending, 0, len(p.running))
	for t := range p.running {
		active = append(active, t)
	}
	p.mu.Unlock()

	for _, t := range queued {
		t.handle.Cancel()
	}
	for _, t := range active {
		t.handle.Cancel()
	}
	p.wg.Wait()
	p.logger.Debug("pool closed", "cancelled", len(queued)+len(active))
}
