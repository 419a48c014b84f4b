// Package api exposes the query engine over HTTP. Routes map 1:1 onto
// the five query operations and are read-only.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/arxdex/arxdex/internal/index"
	"github.com/arxdex/arxdex/internal/query"
)

// Server handles the read-only paper routes.
type Server struct {
	engine *query.Engine
	mux    *http.ServeMux
}

// New builds a Server around an engine.
func New(engine *query.Engine) *Server {
	s := &Server{engine: engine, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /papers/recent", s.handleRecent)
	s.mux.HandleFunc("GET /papers/search", s.handleSearch)
	s.mux.HandleFunc("GET /papers/author/{author}", s.handleAuthor)
	s.mux.HandleFunc("GET /papers/keyword/{keyword}", s.handleKeyword)
	s.mux.HandleFunc("GET /papers/{id}", s.handleGet)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// errorBody is the uniform error response shape.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, format string, args ...any) {
	writeJSON(w, code, errorBody{Error: fmt.Sprintf(format, args...)})
}

// limitParam parses the optional limit query parameter.
func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return query.DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return limit, nil
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		writeError(w, http.StatusBadRequest, "missing category")
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%s", err)
		return
	}

	res, err := s.engine.RecentInCategory(r.Context(), category, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%s", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"papers":   papers(res),
		"count":    res.Count,
	})
}

func (s *Server) handleAuthor(w http.ResponseWriter, r *http.Request) {
	author := r.PathValue("author")

	res, err := s.engine.PapersByAuthor(r.Context(), author)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%s", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"author": author,
		"papers": papers(res),
		"count":  res.Count,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%s", err)
		return
	}
	if res.Count == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, res.Results[0])
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, start, end := q.Get("category"), q.Get("start"), q.Get("end")
	if category == "" || start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "missing category/start/end")
		return
	}

	res, err := s.engine.PapersInDateRange(r.Context(), category, start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%s", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"start":    start,
		"end":      end,
		"papers":   papers(res),
		"count":    res.Count,
	})
}

func (s *Server) handleKeyword(w http.ResponseWriter, r *http.Request) {
	keyword := r.PathValue("keyword")
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%s", err)
		return
	}

	res, err := s.engine.PapersByKeyword(r.Context(), keyword, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%s", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"keyword": keyword,
		"papers":  papers(res),
		"count":   res.Count,
	})
}

// papers keeps the papers array non-null in JSON even when empty.
func papers(res *query.Result) []index.Item {
	if res.Results == nil {
		return []index.Item{}
	}
	return res.Results
}
