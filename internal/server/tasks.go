package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gandergraph/gander/pkg/dispatch"
	"github.com/gandergraph/gander/pkg/engine"
	"github.com/gandergraph/gander/pkg/errors"
	"github.com/gandergraph/gander/pkg/graph"
)

// submitRequest is the POST /api/v1/tasks body. Graph decoding is
// tolerant per the wire format contract.
type submitRequest struct {
	Module    string         `json:"module"`
	Function  string         `json:"function"`
	Graph     graph.Data     `json:"graph"`
	Nodes     []graph.ID     `json:"nodes,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
	TimeoutMs int64          `json:"timeoutMs,omitempty"`
	Refresh   bool           `json:"refresh,omitempty"`
}

// taskResponse is the task document. Result is set when the task
// completed, Error when it failed, timed out, or was cancelled;
// neither is present while it is still pending or running.
type taskResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	State     dispatch.State   `json:"state"`
	Progress  float64          `json:"progress"`
	CacheHit  bool             `json:"cacheHit"`
	CreatedAt time.Time        `json:"createdAt"`
	Result    *dispatch.Result `json:"result,omitempty"`
	Error     *errorBody       `json:"error,omitempty"`
}

func newTaskResponse(t *trackedTask) taskResponse {
	h := t.handle
	resp := taskResponse{
		ID:        h.ID(),
		Name:      h.Name(),
		State:     h.State(),
		Progress:  h.Progress(),
		CacheHit:  t.cacheHit,
		CreatedAt: t.created,
	}
	if resp.State.Terminal() {
		if res, err := h.Result(); err != nil {
			resp.Error = newErrorBody(err)
		} else {
			resp.Result = &res
		}
	}
	return resp
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if req.Module == "" || req.Function == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "module and function are required"))
		return
	}

	tt := newTrackedTask()
	// The task outlives the submitting request; DELETE is the way to
	// stop one early.
	ctx := context.WithoutCancel(r.Context())
	h, hit, err := s.engine.SubmitWithCacheInfo(ctx, engine.Request{
		Module:     req.Module,
		Function:   req.Function,
		Graph:      req.Graph,
		Nodes:      req.Nodes,
		Options:    req.Options,
		Timeout:    time.Duration(req.TimeoutMs) * time.Millisecond,
		Refresh:    req.Refresh,
		OnProgress: tt.publishProgress,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tt.handle = h
	tt.cacheHit = hit
	s.store.put(h.ID(), tt)
	go func() {
		<-h.Done()
		tt.settle()
	}()

	s.logger.Debug("task submitted", "task", h.ID(), "name", h.Name(), "cache_hit", hit)
	writeJSON(w, http.StatusAccepted, newTaskResponse(tt))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")
	tt, ok := s.store.get(id)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeTaskNotFound, "no task %q", id))
		return
	}
	writeJSON(w, http.StatusOK, newTaskResponse(tt))
}

func (s *Server) handleCancelTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")
	tt, ok := s.store.get(id)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeTaskNotFound, "no task %q", id))
		return
	}
	// Cancelling a settled task is a no-op; the response reflects the
	// state the task actually settled in.
	tt.handle.Cancel()
	s.logger.Debug("task cancel requested", "task", id)
	writeJSON(w, http.StatusOK, newTaskResponse(tt))
}
