// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package fixture

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// ErrAliasNotMatched is returned by Alias.Wait when no request hit the route
// before the timeout. It usually means the URL template drifted from what the
// console requests and the real backend answered instead.
var ErrAliasNotMatched = errors.New("intercept alias was never matched")

// Route maps requests to a fixture payload.
type Route struct {
	// Method is the HTTP method to match; empty matches any method.
	Method string
	// URL is a glob, see CompileGlob.
	URL string
	// Fixture is the payload path relative to the Loader root.
	Fixture string
	// Body is an inline payload used when Fixture is empty.
	Body []byte
	// StatusCode defaults to 200.
	StatusCode int
	// Alias names the route for Wait / Hits, like "matchedUrl".
	Alias string
}

// Response is what a matched route answers with.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Alias counts the requests served by a route.
type Alias struct {
	name string
	glob string
	hits atomic.Int64
}

// Name returns the alias name.
func (a *Alias) Name() string {
	return a.name
}

// Hits returns how many requests the route has served.
func (a *Alias) Hits() int {
	return int(a.hits.Load())
}

// Wait blocks until the route served at least one request.
func (a *Alias) Wait(ctx context.Context, interval, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(context.Context) (bool, error) {
		return a.hits.Load() > 0, nil
	})
	if err != nil {
		return fmt.Errorf("%w: @%s (%s): %v", ErrAliasNotMatched, a.name, a.glob, err)
	}
	return nil
}

type entry struct {
	route Route
	glob  *Glob
	body  []byte
	alias *Alias
}

// Router holds intercept routes. The most recently added matching route
// wins, so a spec can override an earlier stub.
type Router struct {
	loader  *Loader
	mu      sync.RWMutex
	entries []*entry
}

// NewRouter creates a Router resolving fixtures through loader.
func NewRouter(loader *Loader) *Router {
	return &Router{loader: loader}
}

// Add registers a route and returns its alias.
func (r *Router) Add(route Route) (*Alias, error) {
	if route.URL == "" {
		return nil, errors.New("route URL is required")
	}
	body := route.Body
	if route.Fixture != "" {
		if r.loader == nil {
			return nil, fmt.Errorf("route %s: no fixture loader configured", route.URL)
		}
		data, err := r.loader.Load(route.Fixture)
		if err != nil {
			return nil, err
		}
		body = data
	}
	if route.StatusCode == 0 {
		route.StatusCode = http.StatusOK
	}
	alias := &Alias{name: route.Alias, glob: route.URL}

	r.mu.Lock()
	r.entries = append(r.entries, &entry{
		route: route,
		glob:  CompileGlob(route.URL),
		body:  body,
		alias: alias,
	})
	r.mu.Unlock()
	return alias, nil
}

// Match finds the route for a request. It records a hit on the alias.
func (r *Router) Match(method, rawURL string) (Response, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if e.route.Method != "" && !strings.EqualFold(e.route.Method, method) {
			continue
		}
		if !e.glob.Match(rawURL) {
			continue
		}
		e.alias.hits.Add(1)
		return Response{
			StatusCode:  e.route.StatusCode,
			ContentType: "application/json",
			Body:        clone(e.body),
		}, true
	}
	return Response{}, false
}

// Alias looks up a registered alias by name, newest first.
func (r *Router) Alias(name string) (*Alias, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].alias.name == name {
			return r.entries[i].alias, true
		}
	}
	return nil, false
}

// Len returns the number of registered routes.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Reset drops every route.
func (r *Router) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}
