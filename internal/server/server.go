// Package server exposes the hiring funnel over HTTP. Handlers are thin:
// they decode, call the funnel or the interview service, and map domain
// errors to status codes. No decision logic lives here.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"hireflow/internal/funnel"
	"hireflow/internal/hiring"
	"hireflow/internal/interview"
	"hireflow/internal/pipeline"
	"hireflow/internal/store"
)

// CandidateReader is the read-side candidate access the API needs.
type CandidateReader interface {
	Get(id string) (*hiring.Candidate, error)
	List() ([]*hiring.Candidate, error)
	ListByStatus(status hiring.Status) ([]*hiring.Candidate, error)
}

// Server wires the HTTP API.
type Server struct {
	funnel     *funnel.Funnel
	candidates CandidateReader
	interviews *interview.Service
	logger     *zap.Logger
}

func New(f *funnel.Funnel, candidates CandidateReader, interviews *interview.Service, logger *zap.Logger) *Server {
	return &Server{
		funnel:     f,
		candidates: candidates,
		interviews: interviews,
		logger:     logger,
	}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Post("/jobs", s.handleCreateJob)
		r.Post("/applications", s.handleApplication)

		r.Get("/candidates", s.handleListCandidates)
		r.Get("/candidates/{id}", s.handleGetCandidate)

		r.Route("/interview/{token}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Post("/start", s.handleStartSession)
			r.Post("/response", s.handleSubmitResponse)
			r.Post("/coding", s.handleSubmitCoding)
			r.Post("/complete", s.handleCompleteSession)
		})
	})

	return r
}

// ListenAndServe runs the API until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// respondError maps domain sentinels to HTTP status codes. Internal detail
// stays in the log; clients get a generic message for 5xx.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrNotFound), errors.Is(err, store.ErrNotFound):
		s.respond(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, interview.ErrExpired):
		s.respond(w, http.StatusGone, errorBody{Error: "interview link expired"})
	case errors.Is(err, interview.ErrConflict), errors.Is(err, pipeline.ErrInvalidTransition):
		s.respond(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.respond(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		s.respond(w, http.StatusBadRequest, errorBody{Error: "invalid json body"})
		return false
	}
	return true
}
