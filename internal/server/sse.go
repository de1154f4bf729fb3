package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gandergraph/gander/pkg/errors"
)

// handleTaskEvents streams a task's progress as server-sent events.
// Each frame is a JSON taskEvent on a data line. The stream ends with
// a single "done" frame once the task settles; a stream opened on an
// already-settled task carries the done frame alone.
func (s *Server) handleTaskEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")
	tt, ok := s.store.get(id)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeTaskNotFound, "no task %q", id))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "response writer does not support streaming"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Comment frame first, so the client sees the stream open before
	// any event arrives.
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	events, cancel := tt.subscribe()
	defer cancel()

	for {
		select {
		case ev, open := <-events:
			if !open {
				// The stream closing means the task settled. The
				// terminal frame comes straight from the handle, so
				// backpressure can never drop it.
				writeEvent(w, finalEvent(tt))
				flusher.Flush()
				return
			}
			writeEvent(w, ev)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// finalEvent builds the terminal frame from the settled handle.
func finalEvent(t *trackedTask) taskEvent {
	h := t.handle
	ev := taskEvent{
		Type:     eventDone,
		Progress: h.Progress(),
		State:    h.State(),
	}
	if _, err := h.Result(); err != nil {
		ev.Error = newErrorBody(err)
	}
	return ev
}

func writeEvent(w io.Writer, ev taskEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
