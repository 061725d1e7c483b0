// Package server implements the workflow monitoring REST API.
//
// Routes live under /monitoring/user/{username}:
//   - GET .../root: paged collection of root workflows
//   - GET .../root/{m_wf_id}: single root workflow
//   - GET .../root/{m_wf_id}/workflow: stampede boundary (see below)
//
// Workflow-level resources live in each workflow's stampede database.
// This service resolves the stampede database URL (with caching) and
// hands it to external collaborators; it does not query stampede
// databases itself.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zaiyan-alam/pegasus/pkg/monitoring"
)

// Queries is the master-database surface the server needs. Implemented
// by queries.MasterWorkflowQueries.
type Queries interface {
	RootWorkflow(ctx context.Context, username, mWfID string) (*monitoring.RootWorkflow, error)
	RootWorkflows(ctx context.Context, username string, opts monitoring.QueryOptions) ([]monitoring.RootWorkflow, int, int, error)
}

// Server serves the monitoring REST API.
type Server struct {
	q        Queries
	resolver *monitoring.StampedeResolver
	logger   *log.Logger
	pretty   bool
	router   chi.Router
}

// New creates a monitoring server. prettyDefault controls JSON
// indentation when a request carries no pretty-print argument.
func New(q Queries, resolver *monitoring.StampedeResolver, logger *log.Logger, prettyDefault bool) *Server {
	s := &Server{q: q, resolver: resolver, logger: logger, pretty: prettyDefault}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/monitoring/user/{username}", func(r chi.Router) {
		r.Get("/root", s.getRootWorkflows)
		r.Route("/root/{m_wf_id}", func(r chi.Router) {
			r.Get("/", s.getRootWorkflow)
			r.With(s.withStampedeDBURL).Get("/workflow", s.getWorkflows)
		})
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// collection is the paged response envelope.
type collection struct {
	Records []monitoring.RootWorkflow `json:"records"`
	Meta    meta                      `json:"_meta"`
}

type meta struct {
	RecordsTotal    int `json:"records_total"`
	RecordsFiltered int `json:"records_filtered"`
}

type errorBody struct {
	Message string `json:"message"`
}

func (s *Server) getRootWorkflows(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	opts, err := s.parseQueryOptions(r)
	if err != nil {
		s.error(w, http.StatusBadRequest, err, opts.PrettyPrint)
		return
	}

	records, total, filtered, err := s.q.RootWorkflows(r.Context(), username, opts)
	if err != nil {
		s.queryError(w, err, opts.PrettyPrint)
		return
	}
	if total == 0 {
		s.logger.Debug("no root workflows", "user", username)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.json(w, http.StatusOK, collection{
		Records: records,
		Meta:    meta{RecordsTotal: total, RecordsFiltered: filtered},
	}, opts.PrettyPrint)
}

func (s *Server) getRootWorkflow(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	mWfID := chi.URLParam(r, "m_wf_id")
	opts, err := s.parseQueryOptions(r)
	if err != nil {
		s.error(w, http.StatusBadRequest, err, opts.PrettyPrint)
		return
	}

	wf, err := s.q.RootWorkflow(r.Context(), username, mWfID)
	if err != nil {
		s.queryError(w, err, opts.PrettyPrint)
		return
	}
	s.json(w, http.StatusOK, wf, opts.PrettyPrint)
}

// getWorkflows is the stampede boundary. It serves the resolved
// stampede database URL so collaborators can query workflow-level
// resources directly.
func (s *Server) getWorkflows(w http.ResponseWriter, r *http.Request) {
	opts, err := s.parseQueryOptions(r)
	if err != nil {
		s.error(w, http.StatusBadRequest, err, opts.PrettyPrint)
		return
	}

	url, _ := StampedeDBURL(r.Context())
	s.json(w, http.StatusNotImplemented, map[string]string{
		"message":         "workflow queries are not implemented; query the stampede database directly",
		"stampede_db_url": url,
	}, opts.PrettyPrint)
}

type ctxKey int

const stampedeURLKey ctxKey = 0

// withStampedeDBURL resolves the stampede database URL for the
// requested workflow before any workflow-scoped handler runs.
func (s *Server) withStampedeDBURL(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mWfID := chi.URLParam(r, "m_wf_id")
		url, err := s.resolver.DBURL(r.Context(), mWfID)
		if err != nil {
			s.queryError(w, err, s.pretty)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), stampedeURLKey, url)))
	})
}

// StampedeDBURL returns the stampede database URL resolved by the
// workflow-scoped middleware, if any.
func StampedeDBURL(ctx context.Context) (string, bool) {
	url, ok := ctx.Value(stampedeURLKey).(string)
	return url, ok
}

// parseQueryOptions extracts the standard query arguments. Malformed
// integers produce an error which handlers map to 400.
func (s *Server) parseQueryOptions(r *http.Request) (monitoring.QueryOptions, error) {
	opts := monitoring.QueryOptions{PrettyPrint: s.pretty}
	q := r.URL.Query()

	if v := q.Get("pretty-print"); v != "" {
		opts.PrettyPrint = strings.EqualFold(v, "true")
	}
	if v := q.Get("start-index"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("query argument start-index=%q is not a valid int", v)
		}
		opts.StartIndex = n
	}
	if v := q.Get("max-results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("query argument max-results=%q is not a valid int", v)
		}
		opts.MaxResults = n
	}
	opts.Order = q.Get("order")
	if v := q.Get("recent"); v != "" {
		opts.Recent = strings.EqualFold(v, "true")
	}
	return opts, nil
}

// queryError maps query-layer errors onto HTTP status codes.
func (s *Server) queryError(w http.ResponseWriter, err error, pretty bool) {
	switch {
	case errors.Is(err, monitoring.ErrNotFound):
		s.error(w, http.StatusNotFound, err, pretty)
	case errors.Is(err, monitoring.ErrInvalidOrder), errors.Is(err, monitoring.ErrInvalidRange):
		s.error(w, http.StatusBadRequest, err, pretty)
	default:
		s.logger.Error("master database query failed", "err", err)
		s.error(w, http.StatusInternalServerError, errors.New("master database error"), pretty)
	}
}

func (s *Server) error(w http.ResponseWriter, code int, err error, pretty bool) {
	s.json(w, code, errorBody{Message: err.Error()}, pretty)
}

func (s *Server) json(w http.ResponseWriter, code int, v any, pretty bool) {
	data, err := marshal(v, pretty)
	if err != nil {
		s.logger.Error("encode response", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "    ")
	}
	return json.Marshal(v)
}
