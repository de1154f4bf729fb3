// Package dispatch runs compute functions in isolated parallel
// workers with progress reporting, timeouts, and cancellation.
//
// # Model
//
// A [Pool] owns a fixed number of worker slots. [Pool.Submit] never
// blocks: tasks queue FIFO and start in submission order as slots free
// up, and the caller gets a [Handle] future to await. Each task runs
// in its own isolate goroutine against a deep copy of its arguments,
// so no memory is shared across the boundary and tasks never need to
// lock against each other. Progress and results cross back as
// messages; progress is clamped monotone and a successful task always
// ends on a 1.0 report.
//
// A compute function runs to completion once started; there is no
// preemption inside a task. On timeout or cancellation the isolate is
// presumed stuck, its context is cancelled, its eventual output is
// discarded, and the worker slot is replaced immediately so other
// tasks are not disturbed. A panicking function fails only its own
// task, surfacing as a [errors.WorkerError] carrying the original
// message and stack.
//
// # Registry
//
// Pools dispatch by name through an explicit [Registry] injected at
// construction. Nothing is discovered dynamically: the engine decides
// what "stats/degree" means by registering a [ComputeFunc] for it.
package dispatch
