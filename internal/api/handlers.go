package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/springembed/pkg/errors"
	"github.com/matzehuels/springembed/pkg/graph"
	"github.com/matzehuels/springembed/pkg/layout/spring"
	"github.com/matzehuels/springembed/pkg/pipeline"
	"github.com/matzehuels/springembed/pkg/store"
)

// createRequest is the body of POST /v1/layouts. Options fields that are
// absent keep the server defaults.
type createRequest struct {
	Graph   *graph.Document `json:"graph"`
	Options spring.Options  `json:"options"`
	Refresh bool            `json:"refresh,omitempty"`
}

// layoutResponse describes a stored layout.
type layoutResponse struct {
	ID        string         `json:"id"`
	Algorithm string         `json:"algorithm"`
	Graph     graph.Document `json:"graph"`
	Solver    *spring.Result `json:"solver,omitempty"`
	Cached    bool           `json:"cached"`
	Links     links          `json:"links"`
}

type links struct {
	Self string `json:"self"`
	SVG  string `json:"svg"`
	DOT  string `json:"dot"`
}

func newLayoutResponse(rec *store.Record, cached bool) layoutResponse {
	self := "/v1/layouts/" + rec.ID
	return layoutResponse{
		ID:        rec.ID,
		Algorithm: rec.Algorithm,
		Graph:     rec.Graph,
		Solver:    rec.Solver,
		Cached:    cached,
		Links:     links{Self: self, SVG: self + "/svg", DOT: self + "/dot"},
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req := createRequest{Options: s.cfg.Defaults}
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Graph == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "graph is required"))
		return
	}

	g, err := graph.FromDocument(*req.Graph)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Layout:  req.Options,
		Refresh: req.Refresh,
		Logger:  s.cfg.Logger,
	}
	layout, hit, err := s.cfg.Runner.LayoutWithCacheInfo(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := store.NewRecord(layout, s.cfg.TTL)
	if err := s.cfg.Store.Save(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/v1/layouts/"+rec.ID)
	s.writeJSON(w, http.StatusCreated, newLayoutResponse(rec, hit))
}

func (s *Server) lookup(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		return nil, err
	}
	return s.cfg.Store.Get(r.Context(), id)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newLayoutResponse(rec, false))
}

func (s *Server) handleArtifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := s.lookup(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		layout, err := rec.Layout()
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		opts := pipeline.Options{
			Formats:  []string{format},
			Detailed: r.URL.Query().Get("detailed") == "true",
			Logger:   s.cfg.Logger,
		}
		artifacts, err := s.cfg.Runner.Render(r.Context(), layout, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifacts[format])
	}
}
