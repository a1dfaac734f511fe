// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package injection makes the mock console backend fail on purpose, so page
// objects can be exercised against error and slow responses.
package injection

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/StringKe/console-e2e/internal/config"
)

// Fault is the kind of failure to inject.
type Fault string

const (
	// FaultServerError answers 500.
	FaultServerError Fault = "server_error"
	// FaultUnavailable answers 503, the way the console proxy does when a
	// plugin backend is down.
	FaultUnavailable Fault = "unavailable"
	// FaultUnauthorized answers 401, which makes the console redirect to
	// the login page.
	FaultUnauthorized Fault = "unauthorized"
	// FaultNotFound answers 404.
	FaultNotFound Fault = "not_found"
	// FaultSlow delays the normal response by Rule.Delay.
	FaultSlow Fault = "slow"
)

// Trigger decides when a rule fires.
type Trigger string

const (
	// TriggerAlways fires on every matching request.
	TriggerAlways Trigger = "always"
	// TriggerCount fires on the first Rule.Count matching requests.
	TriggerCount Trigger = "count"
	// TriggerProbability fires on Rule.Probability percent of requests.
	TriggerProbability Trigger = "probability"
)

// Rule is one injection rule.
type Rule struct {
	// Path is a regexp matched against the request URI.
	Path string `json:"path"`
	// Method is a regexp matched against the method; empty matches all.
	Method string `json:"method,omitempty"`
	Fault  Fault  `json:"fault"`
	// Trigger defaults to TriggerAlways.
	Trigger     Trigger `json:"trigger,omitempty"`
	Count       int     `json:"count,omitempty"`
	Probability int     `json:"probability,omitempty"`
	// Delay takes "2s"-style strings over the admin API.
	Delay config.Duration `json:"delay,omitempty"`

	fired    int
	pathRe   *regexp.Regexp
	methodRe *regexp.Regexp
}

// Injected is the fault chosen for a request.
type Injected struct {
	Fault Fault
	Delay time.Duration
}

// StatusCode returns the HTTP status for the fault, or 0 for FaultSlow.
func (i *Injected) StatusCode() int {
	switch i.Fault {
	case FaultUnavailable:
		return http.StatusServiceUnavailable
	case FaultUnauthorized:
		return http.StatusUnauthorized
	case FaultNotFound:
		return http.StatusNotFound
	case FaultSlow:
		return 0
	default:
		return http.StatusInternalServerError
	}
}

// Injector holds the active rules. It is safe for concurrent use.
type Injector struct {
	mu    sync.Mutex
	rules []*Rule
}

// NewInjector creates an empty Injector.
func NewInjector() *Injector {
	return &Injector{}
}

// Add compiles and registers a rule.
func (in *Injector) Add(rule Rule) error {
	pathRe, err := regexp.Compile(rule.Path)
	if err != nil {
		return fmt.Errorf("path pattern %q: %w", rule.Path, err)
	}
	method := rule.Method
	if method == "" {
		method = ".*"
	}
	methodRe, err := regexp.Compile(method)
	if err != nil {
		return fmt.Errorf("method pattern %q: %w", rule.Method, err)
	}
	if rule.Trigger == "" {
		rule.Trigger = TriggerAlways
	}
	rule.pathRe, rule.methodRe = pathRe, methodRe

	in.mu.Lock()
	defer in.mu.Unlock()
	in.rules = append(in.rules, &rule)
	return nil
}

// Fail is shorthand for an always-firing rule.
func (in *Injector) Fail(path string, fault Fault) error {
	return in.Add(Rule{Path: path, Fault: fault})
}

// FailTimes fires the fault on the next n matching requests only.
func (in *Injector) FailTimes(path string, fault Fault, n int) error {
	return in.Add(Rule{Path: path, Fault: fault, Trigger: TriggerCount, Count: n})
}

// Check returns the fault for a request, or nil when no rule fires. The
// first matching rule that fires wins.
func (in *Injector) Check(requestURI, method string) *Injected {
	in.mu.Lock()
	defer in.mu.Unlock()

	for _, r := range in.rules {
		if !r.pathRe.MatchString(requestURI) || !r.methodRe.MatchString(method) {
			continue
		}
		switch r.Trigger {
		case TriggerAlways:
		case TriggerCount:
			if r.fired >= r.Count {
				continue
			}
		case TriggerProbability:
			if rand.IntN(100) >= r.Probability {
				continue
			}
		default:
			continue
		}
		r.fired++
		return &Injected{Fault: r.Fault, Delay: r.Delay.Duration}
	}
	return nil
}

// Remove drops every rule registered for path.
func (in *Injector) Remove(path string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	kept := in.rules[:0]
	for _, r := range in.rules {
		if r.Path != path {
			kept = append(kept, r)
		}
	}
	in.rules = kept
}

// Clear drops every rule.
func (in *Injector) Clear() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.rules = nil
}

// Len returns the number of rules.
func (in *Injector) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.rules)
}
