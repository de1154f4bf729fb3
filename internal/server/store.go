package server

import (
	"sync"
	"time"

	"github.com/gandergraph/gander/pkg/dispatch"
)

// eventBuffer bounds each subscriber channel. Publishes never block:
// a slow consumer loses intermediate progress frames, never the
// terminal one.
const eventBuffer = 32

// Event types on a task stream.
const (
	eventProgress = "progress"
	eventDone     = "done"
)

// taskEvent is one frame on a task's event stream.
type taskEvent struct {
	Type     string         `json:"type"`
	Progress float64        `json:"progress"`
	State    dispatch.State `json:"state,omitempty"`
	Error    *errorBody     `json:"error,omitempty"`
}

// trackedTask pairs a handle with its subscriber set. The handle and
// cacheHit fields are written once before the task enters the store
// and are read-only afterwards.
type trackedTask struct {
	handle   *dispatch.Handle
	cacheHit bool
	created  time.Time

	mu      sync.Mutex
	settled time.Time // zero until the watcher observes Done
	subs    map[chan taskEvent]struct{}
}

func newTrackedTask() *trackedTask {
	return &trackedTask{
		created: time.Now(),
		subs:    make(map[chan taskEvent]struct{}),
	}
}

// publishProgress fans a progress frame out to the subscribers. It is
// handed to the engine as the task's OnProgress callback, so it runs
// on pool goroutines and must never block.
func (t *trackedTask) publishProgress(v float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ev := taskEvent{Type: eventProgress, Progress: v}
	for ch := range t.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// subscribe opens an event stream. The first frame is a snapshot of
// the current progress; a stream on a settled task closes immediately.
// The returned cancel is idempotent and must be called when the
// consumer stops reading.
func (t *trackedTask) subscribe() (<-chan taskEvent, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch := make(chan taskEvent, eventBuffer)
	if !t.settled.IsZero() {
		close(ch)
		return ch, func() {}
	}
	ch <- taskEvent{Type: eventProgress, Progress: t.handle.Progress()}
	t.subs[ch] = struct{}{}
	return ch, func() { t.unsubscribe(ch) }
}

func (t *trackedTask) unsubscribe(ch chan taskEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.subs[ch]; ok {
		delete(t.subs, ch)
		close(ch)
	}
}

// settle records the terminal time and closes every subscriber
// channel. The closed channel is the settlement signal; consumers
// read the terminal frame from the handle, which cannot be dropped.
func (t *trackedTask) settle() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.settled.IsZero() {
		return
	}
	t.settled = time.Now()
	for ch := range t.subs {
		close(ch)
	}
	t.subs = nil
}

// expired reports whether the retention window has lapsed. Tasks that
// have not settled never expire.
func (t *trackedTask) expired(now time.Time, retention time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.settled.IsZero() && now.Sub(t.settled) > retention
}

// taskStore keeps submitted tasks addressable after the submitting
// request returns. Settled entries stay for a retention window and
// are swept lazily on store access, the same way expired entries age
// out of the file cache.
type taskStore struct {
	retention time.Duration

	mu    sync.Mutex
	tasks map[string]*trackedTask
}

func newTaskStore(retention time.Duration) *taskStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &taskStore{
		retention: retention,
		tasks:     make(map[string]*trackedTask),
	}
}

// put registers a task and sweeps entries whose retention lapsed.
func (st *taskStore) put(id string, t *trackedTask) {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := time.Now()
	for key, old := range st.tasks {
		if old.expired(now, st.retention) {
			delete(st.tasks, key)
		}
	}
	st.tasks[id] = t
}

// get looks a task up, dropping it when its retention lapsed.
func (st *taskStore) get(id string) (*trackedTask, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	t, ok := st.tasks[id]
	if !ok {
		return nil, false
	}
	if t.expired(time.Now(), st.retention) {
		delete(st.tasks, id)
		return nil, false
	}
	return t, true
}

// size reports how many tasks are currently tracked, settled ones
// within retention included.
func (st *taskStore) size() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.tasks)
}
