package dispatch

import (
	"context"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/gandergraph/gander/pkg/errors"
)

// State is the lifecycle phase of a submitted task.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
	StateTimedOut  State = "timed_out"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled, StateTimedOut:
		return true
	}
	return false
}

// Handle is the future returned by [Pool.Submit]. It settles exactly
// once; all methods are safe for concurrent use.
type Handle struct {
	id         string
	name       string
	cancel     context.CancelFunc
	onProgress func(float64)

	mu       sync.Mutex
	state    State
	progress float64
	result   Result
	err      error
	done     chan struct{}
}

func newHandle(task Task, cancel context.CancelFunc, onProgress func(float64)) *Handle {
	return &Handle{
		id:         task.ID,
		name:       task.Name(),
		cancel:     cancel,
		onProgress: onProgress,
		state:      StatePending,
		done:       make(chan struct{}),
	}
}

// Settled returns an already-completed handle carrying res, delivering
// the final 1.0 progress report on the way. Callers resolving a task
// from a cache use it so hits never occupy a worker slot.
func Settled(task Task, res Result, onProgress func(float64)) *Handle {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	h := newHandle(task, func() {}, onProgress)
	h.setRunning()
	h.finish(res, nil, StateCompleted)
	return h
}

// ID returns the task identifier.
func (h *Handle) ID() string { return h.id }

// Name returns the task's registry key, "module/function".
func (h *Handle) Name() string { return h.name }

// State returns the current lifecycle phase.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Progress returns the latest reported fraction in [0, 1]. It never
// decreases, and reads 1 exactly when the task completed.
func (h *Handle) Progress() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.progress
}

// Done returns a channel closed when the task settles.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Await blocks until the task settles or ctx is done. A ctx error
// abandons the wait only; the task keeps running.
func (h *Handle) Await(ctx context.Context) (Result, error) {
	select {
	case <-h.done:
		return h.Result()
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Result returns the settled outcome. Calling it before Done closes
// yields an UNAVAILABLE error.
func (h *Handle) Result() (Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.state.Terminal() {
		return Result{}, errors.New(errors.ErrCodeUnavailable, "task %s has not settled", h.id)
	}
	return h.result, h.err
}

// Cancel stops the task. A queued task settles immediately; a running
// one has its context cancelled and its worker slot reclaimed without
// waiting for the compute function to notice. Cancelling a settled
// task does nothing.
func (h *Handle) Cancel() {
	h.cancel()
	h.finish(Result{}, errors.New(errors.ErrCodeCancelled, "task %s cancelled", h.id), StateCancelled)
}

// reportProgress applies the monotone clamp and forwards genuine
// advances to the caller's callback.
func (h *Handle) reportProgress(v float64) {
	if math.IsNaN(v) {
		return
	}
	h.mu.Lock()
	if h.state != StateRunning {
		h.mu.Unlock()
		return
	}
	v = min(v, 1)
	if v <= h.progress {
		h.mu.Unlock()
		return
	}
	h.progress = v
	fire := h.onProgress
	h.mu.Unlock()
	if fire != nil {
		fire(v)
	}
}

// setRunning moves pending to running. It fails when the task was
// cancelled while queued.
func (h *Handle) setRunning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StatePending {
		return false
	}
	h.state = StateRunning
	return true
}

// finish settles the handle; the first caller wins. Completion forces
// the final 1.0 progress report.
func (h *Handle) finish(res Result, err error, st State) bool {
	h.mu.Lock()
	if h.state.Terminal() {
		h.mu.Unlock()
		return false
	}
	h.state = st
	h.result = res
	h.err = err
	var fire func(float64)
	if st == StateCompleted && h.progress < 1 {
		h.progress = 1
		fire = h.onProgress
	}
	h.mu.Unlock()
	if fire != nil {
		fire(1)
	}
	close(h.done)
	return true
}
