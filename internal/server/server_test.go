package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gandergraph/gander/pkg/cache"
	"github.com/gandergraph/gander/pkg/dispatch"
	"github.com/gandergraph/gander/pkg/engine"
	"github.com/gandergraph/gander/pkg/errors"
	"github.com/gandergraph/gander/pkg/graph"
	"github.com/gandergraph/gander/pkg/observability"
)

func newTestServer(t *testing.T, eopts engine.Options) (*httptest.Server, *engine.Engine) {
	t.Helper()
	if eopts.Logger == nil {
		eopts.Logger = log.New(io.Discard)
	}
	eng := engine.New(eopts)
	srv := New(Options{Engine: eng, Logger: log.New(io.Discard)})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		// Engine first: closing it settles every tracked task, which
		// ends open event streams before the HTTP server drains.
		if err := eng.Close(); err != nil {
			t.Errorf("close engine: %v", err)
		}
		ts.Close()
	})
	return ts, eng
}

func triangle() graph.Data {
	return graph.Data{
		Nodes: []graph.ID{"a", "b", "c"},
		Edges: []graph.EdgeData{
			{Source: "a", Target: "b", Weight: 1},
			{Source: "b", Target: "c", Weight: 1},
			{Source: "a", Target: "c", Weight: 1},
		},
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func submitTask(t *testing.T, ts *httptest.Server, req submitRequest) taskResponse {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/v1/tasks", req)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("submit status = %d, want %d", resp.StatusCode, http.StatusAccepted)
	}
	var doc taskResponse
	decodeBody(t, resp, &doc)
	return doc
}

// awaitTask polls the task document until it turns terminal.
func awaitTask(t *testing.T, ts *httptest.Server, id string) taskResponse {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(ts.URL + "/api/v1/tasks/" + id)
		if err != nil {
			t.Fatalf("GET task: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("task status code = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		var doc taskResponse
		decodeBody(t, resp, &doc)
		if doc.State.Terminal() {
			return doc
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("task never settled")
	return taskResponse{}
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, engine.Options{Workers: 2})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body healthResponse
	decodeBody(t, resp, &body)
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.Pool.Workers != 2 {
		t.Errorf("pool workers = %d, want 2", body.Pool.Workers)
	}
}

func TestAlgorithmsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, engine.Options{Workers: 1})

	resp, err := http.Get(ts.URL + "/api/v1/algorithms")
	if err != nil {
		t.Fatalf("GET /api/v1/algorithms: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var body algorithmsResponse
	decodeBody(t, resp, &body)
	if want := len(engine.Algorithms()); len(body.Algorithms) != want {
		t.Fatalf("catalog size = %d, want %d", len(body.Algorithms), want)
	}
	found := false
	for _, a := range body.Algorithms {
		if a.Module == "stats" && a.ID == "degree" {
			found = true
			break
		}
	}
	if !found {
		t.Error("catalog is missing stats/degree")
	}
}

func TestSubmitCompletesDegree(t *testing.T) {
	ts, _ := newTestServer(t, engine.Options{Workers: 2})

	doc := submitTask(t, ts, submitRequest{Module: "stats", Function: "degree", Graph: triangle()})
	if doc.ID == "" {
		t.Fatal("submit returned an empty task id")
	}
	if doc.Name != "stats/degree" {
		t.Errorf("name = %q, want stats/degree", doc.Name)
	}
	if doc.CacheHit {
		t.Error("first submission reported a cache hit")
	}

	final := awaitTask(t, ts, doc.ID)
	if final.State != dispatch.StateCompleted {
		t.Fatalf("state = %q, want %q", final.State, dispatch.StateCompleted)
	}
	if final.Progress != 1 {
		t.Errorf("progress = %v, want 1", final.Progress)
	}
	if final.Result == nil || final.Result.Kind != dispatch.KindValues {
		t.Fatalf("result = %+v, want per-node values", final.Result)
	}
	for _, id := range []graph.ID{"a", "b", "c"} {
		if got := final.Result.Values[id]; got != 2 {
			t.Errorf("degree[%s] = %v, want 2", id, got)
		}
	}
}

func TestSubmitRejectsBadRequests(t *testing.T) {
	ts, _ := newTestServer(t, engine.Options{Workers: 1})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed json",
			body:       `{"module": "stats"`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "missing function",
			body:       `{"module":"stats","graph":{"nodes":["a"]}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "unknown algorithm",
			body:       `{"module":"stats","function":"pagerank","graph":{"nodes":["a"]}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_ALGORITHM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/v1/tasks", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var body errorResponse
			decodeBody(t, resp, &body)
			if body.Error.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", body.Error.Code, tt.wantCode)
			}
			if body.Error.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestUnknownTaskID(t *testing.T) {
	ts, _ := newTestServer(t, engine.Options{Workers: 1})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/tasks/nope"},
		{http.MethodDelete, "/api/v1/tasks/nope"},
		{http.MethodGet, "/api/v1/tasks/nope/events"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, nil)
			if err != nil {
				t.Fatalf("build request: %v", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("%s %s: %v", tt.method, tt.path, err)
			}
			if resp.StatusCode != http.StatusNotFound {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
			}
			var body errorResponse
			decodeBody(t, resp, &body)
			if body.Error.Code != string(errors.ErrCodeTaskNotFound) {
				t.Errorf("error code = %q, want %q", body.Error.Code, errors.ErrCodeTaskNotFound)
			}
		})
	}
}

func TestFailedTaskDocument(t *testing.T) {
	ts, eng := newTestServer(t, engine.Options{Workers: 1})
	err := eng.Register("test", "boom", func(ctx context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
		return dispatch.Result{}, errors.New(errors.ErrCodeInvalidInput, "bad input")
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	doc := submitTask(t, ts, submitRequest{Module: "test", Function: "boom", Graph: triangle()})
	final := awaitTask(t, ts, doc.ID)

	if final.State != dispatch.StateFailed {
		t.Fatalf("state = %q, want %q", final.State, dispatch.StateFailed)
	}
	if final.Result != nil {
		t.Error("failed task document carries a result")
	}
	if final.Error == nil {
		t.Fatal("failed task document carries no error")
	}
	if final.Error.Code != string(errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %q, want %q", final.Error.Code, errors.ErrCodeInvalidInput)
	}
	if final.Error.Message != "bad input" {
		t.Errorf("error message = %q, want %q", final.Error.Message, "bad input")
	}
}

func TestCancelRunningTask(t *testing.T) {
	ts, eng := newTestServer(t, engine.Options{Workers: 1})
	err := eng.Register("test", "block", func(ctx context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
		<-ctx.Done()
		return dispatch.Result{}, ctx.Err()
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	doc := submitTask(t, ts, submitRequest{Module: "test", Function: "block", Graph: triangle()})

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/tasks/"+doc.ID, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE task: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var cancelled taskResponse
	decodeBody(t, resp, &cancelled)
	if cancelled.State != dispatch.StateCancelled {
		t.Errorf("state = %q, want %q", cancelled.State, dispatch.StateCancelled)
	}
	if cancelled.Error == nil || cancelled.Error.Code != string(errors.ErrCodeCancelled) {
		t.Errorf("error = %+v, want code %q", cancelled.Error, errors.ErrCodeCancelled)
	}
}

func TestSubmitTimeoutBudget(t *testing.T) {
	ts, eng := newTestServer(t, engine.Options{Workers: 1})
	err := eng.Register("test", "block", func(ctx context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
		<-ctx.Done()
		return dispatch.Result{}, ctx.Err()
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	doc := submitTask(t, ts, submitRequest{Module: "test", Function: "block", Graph: triangle(), TimeoutMs: 30})
	final := awaitTask(t, ts, doc.ID)

	if final.State != dispatch.StateTimedOut {
		t.Fatalf("state = %q, want %q", final.State, dispatch.StateTimedOut)
	}
	if final.Error == nil || final.Error.Code != string(errors.ErrCodeTimeout) {
		t.Errorf("error = %+v, want code %q", final.Error, errors.ErrCodeTimeout)
	}
}

func TestCacheHitAnswersInline(t *testing.T) {
	mem, err := cache.NewMemoryCache(32)
	if err != nil {
		t.Fatalf("NewMemoryCache: %v", err)
	}
	ts, _ := newTestServer(t, engine.Options{Workers: 1, Cache: mem})
	req := submitRequest{Module: "stats", Function: "degree", Graph: triangle()}

	doc := submitTask(t, ts, req)
	awaitTask(t, ts, doc.ID)

	// Storage is write-behind, so resubmit until the entry lands.
	deadline := time.Now().Add(5 * time.Second)
	for {
		doc = submitTask(t, ts, req)
		if doc.CacheHit {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("resubmission never hit the result cache")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// A hit settles at submission: the 202 already carries the result.
	if doc.State != dispatch.StateCompleted {
		t.Errorf("state = %q, want %q", doc.State, dispatch.StateCompleted)
	}
	if doc.Progress != 1 {
		t.Errorf("progress = %v, want 1", doc.Progress)
	}
	if doc.Result == nil || doc.Result.Kind != dispatch.KindValues {
		t.Errorf("result = %+v, want per-node values", doc.Result)
	}
}

func TestSubmitAfterEngineClose(t *testing.T) {
	ts, eng := newTestServer(t, engine.Options{Workers: 1})
	if err := eng.Close(); err != nil {
		t.Fatalf("close engine: %v", err)
	}

	resp := postJSON(t, ts.URL+"/api/v1/tasks", submitRequest{Module: "stats", Function: "degree", Graph: triangle()})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
	var body errorResponse
	decodeBody(t, resp, &body)
	if body.Error.Code != string(errors.ErrCodeUnavailable) {
		t.Errorf("error code = %q, want %q", body.Error.Code, errors.ErrCodeUnavailable)
	}
}

// parseFrames extracts the JSON events from an SSE body.
func parseFrames(t *testing.T, body string) []taskEvent {
	t.Helper()
	var frames []taskEvent
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev taskEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			t.Fatalf("decode frame %q: %v", line, err)
		}
		frames = append(frames, ev)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan stream: %v", err)
	}
	return frames
}

func TestEventsStreamEndsWithDone(t *testing.T) {
	ts, _ := newTestServer(t, engine.Options{Workers: 1})

	doc := submitTask(t, ts, submitRequest{Module: "stats", Function: "degree", Graph: triangle()})
	awaitTask(t, ts, doc.ID)

	resp, err := http.Get(ts.URL + "/api/v1/tasks/" + doc.ID + "/events")
	if err != nil {
		t.Fatalf("GET events: %v", err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if !strings.HasPrefix(string(raw), ": connected\n\n") {
		t.Errorf("stream does not open with the connected comment: %q", raw)
	}

	frames := parseFrames(t, string(raw))
	if len(frames) == 0 {
		t.Fatal("stream carried no frames")
	}
	last := frames[len(frames)-1]
	if last.Type != eventDone {
		t.Errorf("last frame type = %q, want %q", last.Type, eventDone)
	}
	if last.State != dispatch.StateCompleted {
		t.Errorf("last frame state = %q, want %q", last.State, dispatch.StateCompleted)
	}
	if last.Progress != 1 {
		t.Errorf("last frame progress = %v, want 1", last.Progress)
	}
}

func TestEventsStreamLiveTask(t *testing.T) {
	ts, eng := newTestServer(t, engine.Options{Workers: 1})

	release := make(chan struct{})
	var once sync.Once
	stop := func() { once.Do(func() { close(release) }) }
	defer stop()

	err := eng.Register("test", "steps", func(ctx context.Context, args dispatch.Args, report func(float64)) (dispatch.Result, error) {
		report(0.25)
		select {
		case <-release:
		case <-ctx.Done():
			return dispatch.Result{}, ctx.Err()
		}
		report(0.75)
		return dispatch.ValueResult(1), nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	doc := submitTask(t, ts, submitRequest{Module: "test", Function: "steps", Graph: triangle()})

	resp, err := http.Get(ts.URL + "/api/v1/tasks/" + doc.ID + "/events")
	if err != nil {
		t.Fatalf("GET events: %v", err)
	}
	defer resp.Body.Close()

	// Wait for the stream to open before releasing the task.
	br := bufio.NewReader(resp.Body)
	preamble, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read preamble: %v", err)
	}
	if !strings.HasPrefix(preamble, ": connected") {
		t.Fatalf("preamble = %q", preamble)
	}
	stop()

	rest, err := io.ReadAll(br)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	frames := parseFrames(t, string(rest))
	if len(frames) == 0 {
		t.Fatal("stream carried no frames")
	}
	prev := -1.0
	for _, ev := range frames {
		if ev.Progress < prev {
			t.Fatalf("progress went backwards: %v after %v", ev.Progress, prev)
		}
		prev = ev.Progress
	}
	last := frames[len(frames)-1]
	if last.Type != eventDone || last.State != dispatch.StateCompleted || last.Progress != 1 {
		t.Errorf("last frame = %+v, want done/completed at progress 1", last)
	}
}

func TestStoreRetention(t *testing.T) {
	st := newTaskStore(30 * time.Millisecond)

	settled := newTrackedTask()
	settled.handle = dispatch.Settled(dispatch.Task{Module: "stats", Function: "degree"}, dispatch.ValueResult(1), nil)
	settled.settle()
	st.put("settled-task", settled)

	open := newTrackedTask()
	open.handle = dispatch.Settled(dispatch.Task{Module: "stats", Function: "degree"}, dispatch.ValueResult(1), nil)
	st.put("open-task", open)

	time.Sleep(60 * time.Millisecond)

	third := newTrackedTask()
	third.handle = dispatch.Settled(dispatch.Task{Module: "stats", Function: "degree"}, dispatch.ValueResult(1), nil)
	st.put("third-task", third)

	if n := st.size(); n != 2 {
		t.Errorf("size after sweep = %d, want 2", n)
	}
	if _, ok := st.get("settled-task"); ok {
		t.Error("settled task outlived its retention")
	}
	if _, ok := st.get("open-task"); !ok {
		t.Error("unsettled task was swept")
	}
}

func TestSubscribeSettledTask(t *testing.T) {
	tt := newTrackedTask()
	tt.handle = dispatch.Settled(dispatch.Task{Module: "stats", Function: "density"}, dispatch.ValueResult(0.5), nil)
	tt.settle()

	events, cancel := tt.subscribe()
	defer cancel()
	if _, open := <-events; open {
		t.Fatal("stream on a settled task should be closed")
	}

	ev := finalEvent(tt)
	if ev.Type != eventDone || ev.State != dispatch.StateCompleted || ev.Progress != 1 {
		t.Errorf("final event = %+v, want done/completed at progress 1", ev)
	}
	if ev.Error != nil {
		t.Errorf("final event error = %+v, want none", ev.Error)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	tt := newTrackedTask()
	tt.handle = dispatch.Settled(dispatch.Task{Module: "stats", Function: "degree"}, dispatch.ValueResult(1), nil)

	events, cancel := tt.subscribe()
	defer cancel()

	// Nobody reads: the buffer fills and the excess is dropped.
	for i := 0; i < eventBuffer*2; i++ {
		tt.publishProgress(float64(i) / float64(eventBuffer*2))
	}
	if n := len(events); n != eventBuffer {
		t.Errorf("buffered frames = %d, want %d", n, eventBuffer)
	}
}

type countingServerHooks struct {
	observability.NoopServerHooks
	mu         sync.Mutex
	requests   int
	responses  int
	lastStatus int
}

func (h *countingServerHooks) OnRequest(_ context.Context, _, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *countingServerHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses++
	h.lastStatus = status
}

func (h *countingServerHooks) counts() (requests, responses, lastStatus int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.requests, h.responses, h.lastStatus
}

func TestServerHooksObserveRequests(t *testing.T) {
	hooks := &countingServerHooks{}
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	ts, _ := newTestServer(t, engine.Options{Workers: 1})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()

	// The response hook runs after the handler returns, which may be
	// after the client has the body.
	deadline := time.Now().Add(5 * time.Second)
	for {
		requests, responses, lastStatus := hooks.counts()
		if requests == 1 && responses == 1 {
			if lastStatus != http.StatusOK {
				t.Errorf("observed status = %d, want %d", lastStatus, http.StatusOK)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("hook counts = %d/%d, want 1/1", requests, responses)
		}
		time.Sleep(time.Millisecond)
	}
}
