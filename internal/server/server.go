// Package server exposes an engine over HTTP: the algorithm catalog,
// asynchronous task submission, status polling, cancellation, and a
// per-task SSE progress stream.
//
// Submission is always asynchronous. POST /api/v1/tasks answers 202
// with a task document; clients poll GET /api/v1/tasks/{id} or follow
// GET /api/v1/tasks/{id}/events until the document turns terminal. A
// cache hit settles at submission, so its 202 already carries the
// result. Task failures are part of the task document and travel with
// status 200; HTTP error statuses are reserved for faults of the
// request itself (malformed body, unknown algorithm, unknown task id,
// closed engine).
//
// Settled tasks stay addressable for a retention window so results
// can be fetched after the fact; the window is swept lazily on store
// access.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gandergraph/gander/pkg/dispatch"
	"github.com/gandergraph/gander/pkg/engine"
	"github.com/gandergraph/gander/pkg/errors"
	"github.com/gandergraph/gander/pkg/observability"
)

// DefaultRetention is how long settled tasks stay queryable.
const DefaultRetention = time.Hour

// shutdownTimeout bounds the graceful drain in [Server.ListenAndServe].
const shutdownTimeout = 10 * time.Second

// Options configures a server.
type Options struct {
	// Engine executes submitted tasks. Required.
	Engine *engine.Engine

	// Retention bounds how long settled tasks stay queryable.
	// Defaults to DefaultRetention.
	Retention time.Duration

	// Logger defaults to log.Default.
	Logger *log.Logger
}

// Server is the HTTP face of an engine.
type Server struct {
	engine *engine.Engine
	logger *log.Logger
	store  *taskStore
}

// New builds a server around opts.Engine. The engine's lifecycle stays
// with the caller; closing it settles every tracked task.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		engine: opts.Engine,
		logger: logger,
		store:  newTaskStore(opts.Retention),
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/algorithms", s.handleAlgorithms)
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", s.handleSubmit)
			r.Get("/{taskID}", s.handleGetTask)
			r.Delete("/{taskID}", s.handleCancelTask)
			r.Get("/{taskID}/events", s.handleTaskEvents)
		})
	})
	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then
// drains gracefully. Request contexts descend from ctx, so open event
// streams end when shutdown begins.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("serving analytics API", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// observe reports the request lifecycle through the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

type healthResponse struct {
	Status string             `json:"status"`
	Tasks  int                `json:"tasks"`
	Pool   dispatch.PoolStats `json:"pool"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Tasks:  s.store.size(),
		Pool:   s.engine.Stats(),
	})
}

type algorithmsResponse struct {
	Algorithms []engine.Algorithm `json:"algorithms"`
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, algorithmsResponse{Algorithms: engine.Algorithms()})
}

// errorBody is the wire form of a coded error. It appears both as the
// top-level payload of rejected requests and inside failed task
// documents.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// newErrorBody extracts the code and user message. Errors without a
// code classify as internal.
func newErrorBody(err error) *errorBody {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return &errorBody{Code: string(code), Message: errors.UserMessage(err)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := newErrorBody(err)
	s.logger.Debug("request rejected",
		"method", r.Method, "path", r.URL.Path, "code", body.Code, "err", err)
	writeJSON(w, statusFor(errors.Code(body.Code)), errorResponse{Error: *body})
}

// statusFor maps error codes onto HTTP statuses. Task failures never
// pass through here; they ride inside task documents with a 200.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidOptions,
		errors.ErrCodeInvalidAlgorithm:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeNodeNotFound,
		errors.ErrCodeEdgeNotFound,
		errors.ErrCodeTaskNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
