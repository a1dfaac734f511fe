// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package browser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-logr/logr"
)

// ExceptionError is an uncaught exception thrown by the page under test.
type ExceptionError struct {
	Message string
	URL     string
}

func (e *ExceptionError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("uncaught exception at %s: %s", e.URL, e.Message)
	}
	return "uncaught exception: " + e.Message
}

// ExceptionPolicy decides which uncaught page exceptions fail a spec.
// Messages containing one of the ignored substrings are suppressed; each
// suppression is logged so known false positives stay visible in the run
// output.
type ExceptionPolicy struct {
	ignored []string
	log     logr.Logger

	mu         sync.Mutex
	pending    []error
	suppressed int
}

// NewExceptionPolicy builds a policy suppressing the given substrings.
func NewExceptionPolicy(log logr.Logger, ignored ...string) *ExceptionPolicy {
	var patterns []string
	for _, s := range ignored {
		if s = strings.TrimSpace(s); s != "" {
			patterns = append(patterns, s)
		}
	}
	return &ExceptionPolicy{ignored: patterns, log: log}
}

// Record classifies an exception. It returns true when the exception was
// suppressed.
func (p *ExceptionPolicy) Record(message, url string) bool {
	for _, pattern := range p.ignored {
		if strings.Contains(message, pattern) {
			p.mu.Lock()
			p.suppressed++
			p.mu.Unlock()
			p.log.Info("Suppressed known uncaught exception", "pattern", pattern, "url", url)
			return true
		}
	}
	p.mu.Lock()
	p.pending = append(p.pending, &ExceptionError{Message: message, URL: url})
	p.mu.Unlock()
	p.log.Error(nil, "Uncaught exception in console", "message", message, "url", url)
	return false
}

// Drain returns and clears the unsuppressed exceptions.
func (p *ExceptionPolicy) Drain() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.pending
	p.pending = nil
	return out
}

// Suppressed returns how many exceptions were ignored so far.
func (p *ExceptionPolicy) Suppressed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suppressed
}
