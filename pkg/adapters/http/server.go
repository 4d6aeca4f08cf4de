package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/onlylist/internal/logging"
	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/session"
	"github.com/aretw0/onlylist/pkg/tasklist"
	"github.com/go-chi/chi/v5"
)

// maxBodySize caps request bodies; a task is a single line of text.
const maxBodySize = 64 << 10

// TextRequest is the body of POST /tasks and PUT /tasks/{index}.
type TextRequest struct {
	Text string `json:"text"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error  string `json:"error"`
	Notice string `json:"notice,omitempty"`
}

// Server exposes the task list intents over JSON.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager

	metrics http.Handler
	version string
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithStreams enables GET /events, fed by the given manager.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the task list.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Sessions: sessions,
		version:  "dev",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.ListTasks)
		r.Post("/", s.AddTask)
		r.Route("/{index}", func(r chi.Router) {
			r.Put("/", s.UpdateTask)
			r.Delete("/", s.DeleteTask)
			r.Post("/toggle", s.ToggleTask)
		})
	})

	if s.Streams != nil {
		r.Get("/events", s.SubscribeEvents)
	}
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListTasks handles GET /tasks.
func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.View(r.Context())
	if err != nil {
		s.fail(w, "ListTasks", err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// AddTask handles POST /tasks.
func (s *Server) AddTask(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeText(w, r)
	if !ok {
		return
	}
	s.turn(w, r, http.StatusCreated, "AddTask", func(ctx context.Context, st *tasklist.Store) error {
		return st.AddTask(ctx, body.Text)
	})
}

// UpdateTask handles PUT /tasks/{index}.
func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	index, ok := s.index(w, r)
	if !ok {
		return
	}
	body, ok := s.decodeText(w, r)
	if !ok {
		return
	}
	s.turn(w, r, http.StatusOK, "UpdateTask", func(ctx context.Context, st *tasklist.Store) error {
		return st.UpdateTask(ctx, index, body.Text)
	})
}

// ToggleTask handles POST /tasks/{index}/toggle.
func (s *Server) ToggleTask(w http.ResponseWriter, r *http.Request) {
	index, ok := s.index(w, r)
	if !ok {
		return
	}
	s.turn(w, r, http.StatusOK, "ToggleTask", func(ctx context.Context, st *tasklist.Store) error {
		return st.ToggleComplete(ctx, index)
	})
}

// DeleteTask handles DELETE /tasks/{index}.
func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	index, ok := s.index(w, r)
	if !ok {
		return
	}
	s.turn(w, r, http.StatusOK, "DeleteTask", func(ctx context.Context, st *tasklist.Store) error {
		return st.DeleteTask(ctx, index)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "onlylist-http",
		"version": s.version,
	})
}

// turn runs fn under the session manager and replies with the resulting view.
func (s *Server) turn(w http.ResponseWriter, r *http.Request, status int, name string, fn func(context.Context, *tasklist.Store) error) {
	var view domain.View
	err := s.Sessions.Do(r.Context(), func(ctx context.Context, st *tasklist.Store) error {
		err := fn(ctx, st)
		view = st.View()
		return err
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			s.logger.Debug(name+": input rejected", "kind", ve.Kind)
			s.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  err.Error(),
				Notice: noticeOf(view, ve.Kind),
			})
			return
		}
		s.fail(w, name, err)
		return
	}
	s.writeJSON(w, status, view)
}

func (s *Server) fail(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, domain.ErrIndexOutOfRange) {
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	s.logger.Error(name+" failed", "err", err)
	s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("%s error: %v", name, err)})
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid task index %q", raw)})
		return 0, false
	}
	return index, true
}

func (s *Server) decodeText(w http.ResponseWriter, r *http.Request) (TextRequest, bool) {
	var body TextRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&body); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return body, false
	}
	return body, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func noticeOf(v domain.View, kind domain.NoticeKind) string {
	if kind == domain.NoticeEdit {
		return v.EditNotice
	}
	return v.AddNotice
}
