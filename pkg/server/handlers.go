package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/modgraph/pkg/buildinfo"
	apperr "github.com/matzehuels/modgraph/pkg/errors"
	pkgio "github.com/matzehuels/modgraph/pkg/io"
	"github.com/matzehuels/modgraph/pkg/pipeline"
	"github.com/matzehuels/modgraph/pkg/store"
)

// DecomposeRequest is the body of POST /v1/decompose.
type DecomposeRequest struct {
	Groups        []int      `json:"groups,omitempty"`
	Operations    [][]string `json:"operations"`
	MaxIterations int        `json:"max_iterations,omitempty"`
	Strict        bool       `json:"strict,omitempty"`
	Refresh       bool       `json:"refresh,omitempty"`
}

// DecomposeResponse is returned by POST /v1/decompose.
type DecomposeResponse struct {
	RunID    string        `json:"run_id"`
	CacheHit bool          `json:"cache_hit"`
	Report   *pkgio.Report `json:"report"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// RunsResponse is returned by GET /v1/runs.
type RunsResponse struct {
	Runs []store.Summary `json:"runs"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	var req DecomposeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}

	res, err := s.cfg.Runner.Execute(r.Context(), pipeline.Options{
		Groups:        req.Groups,
		Operations:    req.Operations,
		MaxIterations: req.MaxIterations,
		Strict:        req.Strict,
		Refresh:       req.Refresh,
		Formats:       []string{pipeline.FormatJSON},
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.cfg.Store.Save(r.Context(), res.Report); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, DecomposeResponse{
		RunID:    res.RunID,
		CacheHit: res.CacheHit,
		Report:   res.Report,
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, apperr.New(apperr.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	runs, err := s.cfg.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, RunsResponse{Runs: runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rep, err := s.loadRun(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleGraph(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := s.loadRun(r)
		if err != nil {
			s.writeError(w, err)
			return
		}
		detailed := r.URL.Query().Get("detailed") == "true"
		data, err := pipeline.RenderReport(r.Context(), rep, format, detailed)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func (s *Server) loadRun(r *http.Request) (*pkgio.Report, error) {
	id := chi.URLParam(r, "id")
	rep, err := s.cfg.Store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.ErrCodeNotFound, "run %q not found", id)
	}
	return rep, err
}
