// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package mockserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/StringKe/console-e2e/internal/fixture"
	"github.com/StringKe/console-e2e/test/mockserver/injection"
)

const adminPrefix = "/admin/"

func isAdmin(r *http.Request) bool {
	return r.URL.Path == "/health" || strings.HasPrefix(r.URL.Path, adminPrefix)
}

// registerRoutes registers the admin API and the fixture fallback.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /admin/reset", s.handleReset)
	mux.HandleFunc("GET /admin/requests", s.handleGetRequests)
	mux.HandleFunc("POST /admin/routes", s.handleAddRoute)
	mux.HandleFunc("GET /admin/aliases/{name}", s.handleGetAlias)
	mux.HandleFunc("POST /admin/faults", s.handleAddFault)
	mux.HandleFunc("DELETE /admin/faults", s.handleClearFaults)

	mux.HandleFunc("/", s.handleFixture)
}

// RouteSpec is the wire form of a fixture.Route, used by the admin API and
// route files.
type RouteSpec struct {
	Method     string `json:"method,omitempty"`
	URL        string `json:"url"`
	Fixture    string `json:"fixture,omitempty"`
	Body       string `json:"body,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Alias      string `json:"alias,omitempty"`
}

// Route converts r to a fixture.Route.
func (r RouteSpec) Route() fixture.Route {
	route := fixture.Route{
		Method:     r.Method,
		URL:        r.URL,
		Fixture:    r.Fixture,
		StatusCode: r.StatusCode,
		Alias:      r.Alias,
	}
	if r.Body != "" {
		route.Body = []byte(r.Body)
	}
	return route
}

// ParseRoutes reads a YAML or JSON list of routes.
func ParseRoutes(data []byte) ([]RouteSpec, error) {
	var specs []RouteSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// AddRoutes registers every route on the server's router.
func (s *Server) AddRoutes(specs []RouteSpec) error {
	for _, spec := range specs {
		if _, err := s.router.Add(spec.Route()); err != nil {
			return err
		}
	}
	return nil
}

// handleFixture answers from the newest matching route.
func (s *Server) handleFixture(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.router.Match(r.Method, r.URL.RequestURI())
	if !ok {
		writeError(w, http.StatusNotFound, "no fixture route for "+r.Method+" "+r.URL.RequestURI())
		return
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.Reset()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleGetRequests(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.RequestLog())
}

func (s *Server) handleAddRoute(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var spec RouteSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.AddRoutes([]RouteSpec{spec}); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, spec)
}

func (s *Server) handleGetAlias(w http.ResponseWriter, r *http.Request) {
	alias, ok := s.router.Alias(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown alias "+r.PathValue("name"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alias": alias.Name(), "hits": alias.Hits()})
}

func (s *Server) handleAddFault(w http.ResponseWriter, r *http.Request) {
	var rule injection.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.injector.Add(rule); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"faults": s.injector.Len()})
}

func (s *Server) handleClearFaults(w http.ResponseWriter, _ *http.Request) {
	s.injector.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
