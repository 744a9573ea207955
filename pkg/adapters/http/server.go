package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/stepsort/internal/logging"
	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/sequence"
	"github.com/aretw0/stepsort/pkg/session"
	"github.com/aretw0/stepsort/pkg/sorting"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Sessions is the session service the API drives.
// *session.Manager satisfies it.
type Sessions interface {
	Create(ctx context.Context, p session.CreateParams) (*session.View, error)
	Get(ctx context.Context, sessionID string) (*session.View, error)
	Advance(ctx context.Context, sessionID string, n int) (*session.View, error)
	Reset(ctx context.Context, sessionID string) (*session.View, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}

// Server serves the JSON API over a Sessions service.
type Server struct {
	Sessions Sessions
	Streams  *StreamManager

	version  string
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the build version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithGatherer exposes g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	ID        string `json:"id,omitempty"`
	Algorithm string `json:"algorithm"`
	Numbers   []int  `json:"numbers,omitempty"`
	Input     string `json:"input,omitempty"`
	Size      *int   `json:"size,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`
}

// NewHandler builds the router for sessions.
func NewHandler(sessions Sessions, opts ...Option) http.Handler {
	s := &Server{
		Sessions: sessions,
		version:  "dev",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if doc, err := GetSwagger(); err != nil {
		s.logger.Error("request validation disabled", "err", err)
	} else if validate, err := s.validateRequests(doc); err != nil {
		s.logger.Error("request validation disabled", "err", err)
	} else {
		r.Use(validate)
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/algorithms", s.ListAlgorithms)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/step", s.StepSession)
			r.Post("/reset", s.ResetSession)
			r.Get("/events", s.SubscribeSession)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "stepsort-http",
		"version":     s.version,
		"api_version": apiVersion,
	})
}

// ListAlgorithms handles GET /algorithms.
func (s *Server) ListAlgorithms(w http.ResponseWriter, r *http.Request) {
	algs := sorting.Algorithms()
	names := make([]string, len(algs))
	for i, a := range algs {
		names[i] = string(a)
	}
	s.writeJSON(w, http.StatusOK, names)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.logger.Warn("CreateSession: invalid request body", "err", err)
		s.writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	numbers, err := body.resolve()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := s.Sessions.Create(r.Context(), session.CreateParams{
		ID:        body.ID,
		Algorithm: body.Algorithm,
		Numbers:   numbers,
		Seed:      body.Seed,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+view.Session.ID)
	s.writeJSON(w, http.StatusCreated, view)
}

// resolve picks the numbers for a new session: explicit input text, then
// explicit numbers, then a generated vector.
func (b CreateSessionRequest) resolve() ([]int, error) {
	switch {
	case b.Input != "":
		return sequence.ParseInput(b.Input)
	case b.Numbers != nil:
		return b.Numbers, nil
	}

	size := sequence.DefaultSize
	if b.Size != nil {
		size = *b.Size
	}
	if size > sequence.MaxLength {
		return nil, fmt.Errorf("%w: size=%d limit=%d", sequence.ErrInputTooLarge, size, sequence.MaxLength)
	}
	return sequence.Generate(sequence.DefaultFloor, sequence.DefaultCeil, size, sorting.NewSource(b.Seed))
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StepSession handles POST /sessions/{id}/step?n=.
func (s *Server) StepSession(w http.ResponseWriter, r *http.Request) {
	var n *int
	if err := runtime.BindQueryParameter("form", true, false, "n", r.URL.Query(), &n); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("invalid parameter n: %v", err)))
		return
	}
	steps := 1
	if n != nil {
		steps = *n
	}

	id := chi.URLParam(r, "id")
	view, err := s.Sessions.Advance(r.Context(), id, steps)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	event := domain.EventStep
	if view.Frame.Finished() {
		event = domain.EventFinish
	}
	s.broadcast(id, event, view)
	s.writeJSON(w, http.StatusOK, view)
}

// ResetSession handles POST /sessions/{id}/reset.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.Sessions.Reset(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.broadcast(id, domain.EventReset, view)
	s.writeJSON(w, http.StatusOK, view)
}

// SubscribeSession handles GET /sessions/{id}/events (SSE).
func (s *Server) SubscribeSession(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeJSON(w, http.StatusInternalServerError, errorBody("streaming not supported"))
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.Sessions.Get(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprint(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: subscribed", "session_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprint(w, msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcast(sessionID string, event domain.EventType, view *session.View) {
	if s.Streams.Subscribers(sessionID) == 0 {
		return
	}
	data, err := json.Marshal(view)
	if err != nil {
		s.logger.Error("SSE: failed to encode view", "session_id", sessionID, "err", err)
		return
	}
	s.Streams.Broadcast(sessionID, fmt.Sprintf("event: %s\ndata: %s\n\n", event, data))
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownAlgorithm),
		errors.Is(err, domain.ErrInvalidSequence),
		errors.Is(err, sequence.ErrInputTooLarge),
		errors.Is(err, sequence.ErrInvalidUTF8),
		errors.Is(err, session.ErrInvalidStepCount):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, errorBody(err.Error()))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
