// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package mockserver serves fixture payloads in place of console backends,
// so page objects and intercept routes can be developed without a cluster.
package mockserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/StringKe/console-e2e/internal/fixture"
	"github.com/StringKe/console-e2e/test/mockserver/injection"
)

// DefaultPort is the port the mock console backend listens on.
const DefaultPort = 9001

// Server is the mock console backend.
type Server struct {
	httpServer *http.Server
	router     *fixture.Router
	injector   *injection.Injector
	log        logr.Logger
	port       int

	requestLogMu sync.RWMutex
	requestLog   []RequestLogEntry
}

// RequestLogEntry records a served request.
type RequestLogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Method     string    `json:"method"`
	URI        string    `json:"uri"`
	StatusCode int       `json:"statusCode"`
}

// Option configures the server.
type Option func(*Server)

// WithPort sets the listen port.
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithLogger sets the logger.
func WithLogger(log logr.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer creates a server answering from router.
func NewServer(router *fixture.Router, opts ...Option) *Server {
	s := &Server{
		router:   router,
		injector: injection.NewInjector(),
		log:      logr.Discard(),
		port:     DefaultPort,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithName("mockserver")

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-CSRFToken")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		if !isAdmin(r) {
			if inj := s.injector.Check(r.URL.RequestURI(), r.Method); inj != nil {
				if s.inject(r.Context(), rec, inj) {
					s.logRequest(r, rec.status)
					return
				}
			}
		}
		next.ServeHTTP(rec, r)
		s.logRequest(r, rec.status)
	})
}

// inject applies a fault. It reports whether the response was written.
func (s *Server) inject(ctx context.Context, w http.ResponseWriter, inj *injection.Injected) bool {
	s.log.V(1).Info("Injecting fault", "fault", inj.Fault, "delay", inj.Delay)
	if inj.Fault == injection.FaultSlow {
		select {
		case <-time.After(inj.Delay):
		case <-ctx.Done():
		}
		return false
	}
	writeError(w, inj.StatusCode(), fmt.Sprintf("injected %s", inj.Fault))
	return true
}

func (s *Server) logRequest(r *http.Request, status int) {
	s.log.V(1).Info("Request", "method", r.Method, "uri", r.URL.RequestURI(), "status", status)
	if isAdmin(r) {
		return
	}
	s.requestLogMu.Lock()
	defer s.requestLogMu.Unlock()
	s.requestLog = append(s.requestLog, RequestLogEntry{
		Timestamp:  time.Now(),
		Method:     r.Method,
		URI:        r.URL.RequestURI(),
		StatusCode: status,
	})
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.log.Info("Starting mock console backend", "port", s.port, "routes", s.router.Len())
	return s.httpServer.ListenAndServe()
}

// StartAsync starts the server in a goroutine and waits for /health.
func (s *Server) StartAsync(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	healthURL := s.URL() + "/health"
	err := wait.PollUntilContextTimeout(ctx, 100*time.Millisecond, 5*time.Second, true, func(ctx context.Context) (bool, error) {
		select {
		case err := <-errChan:
			return false, err
		default:
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
		if err != nil {
			return false, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return false, nil
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK, nil
	})
	if err != nil {
		return fmt.Errorf("mock server on port %d not ready: %w", s.port, err)
	}
	s.log.Info("Mock console backend ready", "url", s.URL())
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router returns the fixture router.
func (s *Server) Router() *fixture.Router {
	return s.router
}

// Injector returns the fault injector.
func (s *Server) Injector() *injection.Injector {
	return s.injector
}

// Reset drops every route, fault and logged request.
func (s *Server) Reset() {
	s.router.Reset()
	s.injector.Clear()
	s.requestLogMu.Lock()
	s.requestLog = nil
	s.requestLogMu.Unlock()
}

// RequestLog returns a copy of the request log.
func (s *Server) RequestLog() []RequestLogEntry {
	s.requestLogMu.RLock()
	defer s.requestLogMu.RUnlock()
	out := make([]RequestLogEntry, len(s.requestLog))
	copy(out, s.requestLog)
	return out
}

// URL returns the base URL of the server.
func (s *Server) URL() string {
	return "http://" + net.JoinHostPort("localhost", fmt.Sprint(s.port))
}
