// Package api serves the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                liveness probe
//	POST /v1/layouts             lay out a graph, store the result, return it
//	GET  /v1/layouts/{id}        fetch a stored layout
//	GET  /v1/layouts/{id}/svg    render a stored layout as SVG
//	GET  /v1/layouts/{id}/dot    render a stored layout as Graphviz DOT
//
// Every request runs its own embedder call; nothing is shared between
// requests except the cache and the store.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"

	"github.com/matzehuels/springembed/pkg/errors"
	"github.com/matzehuels/springembed/pkg/layout/spring"
	"github.com/matzehuels/springembed/pkg/observability"
	"github.com/matzehuels/springembed/pkg/pipeline"
	"github.com/matzehuels/springembed/pkg/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultMaxBodyBytes bounds the size of a submitted graph.
const DefaultMaxBodyBytes = 16 << 20

// Config wires the server's collaborators.
type Config struct {
	Runner       *pipeline.Runner
	Store        store.Store
	Defaults     spring.Options // Solver options requests start from
	Logger       *log.Logger
	TTL          time.Duration // How long stored layouts live
	MaxBodyBytes int64
}

// Server is the HTTP API.
type Server struct {
	cfg Config
}

// New creates a server, filling in defaults for unset fields.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Defaults.IdealEdgeLength == 0 {
		cfg.Defaults = spring.DefaultOptions()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.TTL == 0 {
		cfg.TTL = store.DefaultTTL
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{cfg: cfg}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Get("/svg", s.handleArtifact(pipeline.FormatSVG, "image/svg+xml"))
			r.Get("/dot", s.handleArtifact(pipeline.FormatDOT, "text/vnd.graphviz; charset=utf-8"))
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.cfg.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// observe reports every request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.Host, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.Host, r.URL.Path, status, time.Since(start))
		s.cfg.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.cfg.Logger.Warn("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.Host, r.URL.Path, err)
		s.cfg.Logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: string(code), Message: errors.UserMessage(err)})
}
