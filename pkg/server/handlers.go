package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/conga/pkg/errors"
	congaio "github.com/matzehuels/conga/pkg/io"
	"github.com/matzehuels/conga/pkg/pipeline"
	"github.com/matzehuels/conga/pkg/storage"
)

// DecomposeRequest is the body of POST /v1/decompose.
type DecomposeRequest struct {
	Graph           congaio.Graph `json:"graph"`
	Measure         string        `json:"measure,omitempty" validate:"omitempty,oneof=lazar"`
	EagerModularity bool          `json:"eager_modularity,omitempty"`
	OptimalCount    int           `json:"optimal_count,omitempty" validate:"gte=0"`
	Refresh         bool          `json:"refresh,omitempty"`
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	var req DecomposeRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, errors.New(errors.ErrCodeGraphTooLarge, "request body exceeds %d bytes", s.maxBody))
			return
		}
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, formatValidationError(err), "invalid request"))
		return
	}

	for _, n := range req.Graph.Nodes {
		if n.Label == "" {
			continue
		}
		if err := errors.ValidateLabel(n.Label); err != nil {
			s.writeError(w, err)
			return
		}
	}

	g, err := req.Graph.Build()
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid graph"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	res, err := s.runner.Execute(ctx, pipeline.Options{
		Graph:           g,
		Measure:         req.Measure,
		EagerModularity: req.EagerModularity,
		OptimalCount:    req.OptimalCount,
		Refresh:         req.Refresh,
		Workers:         s.workers,
		Formats:         []string{pipeline.FormatJSON},
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	cacheStatus := "miss"
	if res.CacheInfo.DecomposeHit {
		cacheStatus = "hit"
	}
	w.Header().Set("X-Conga-Cache", cacheStatus)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[pipeline.FormatJSON])
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeRunNotFound, "run storage is disabled"))
		return
	}
	id := chi.URLParam(r, "id")
	run, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, storage.ErrRunNotFound) {
		s.writeError(w, errors.Wrap(errors.ErrCodeRunNotFound, err, "run %s", id))
		return
	}
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load run"))
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeRunNotFound, "run storage is disabled"))
		return
	}
	runs, err := s.store.ListByGraph(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "list runs"))
		return
	}
	if runs == nil {
		runs = []*storage.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// writeError responds with the coded error. Internal causes are logged,
// not returned.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		body.Error.Message = "internal error"
	} else if cause := stderrors.Unwrap(err); cause != nil {
		body.Error.Message = fmt.Sprintf("%s: %v", body.Error.Message, cause)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// formatValidationError turns the first validator failure into a short
// field message.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "min":
		return fmt.Errorf("%s: must have at least %s", field, e.Param())
	case "max":
		return fmt.Errorf("%s: must not exceed %s", field, e.Param())
	case "oneof":
		return fmt.Errorf("%s: must be one of [%s]", field, e.Param())
	}
	return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
}
