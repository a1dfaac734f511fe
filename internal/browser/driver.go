// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

//go:generate mockgen -destination=mock/mock_driver.go -package=mock github.com/StringKe/console-e2e/internal/browser Driver

// Package browser abstracts the browser automation used by page objects.
//
// Driver is the only surface page objects and assertions see. Chrome is the
// production implementation; tests substitute the gomock Driver from the
// mock sub-package.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/StringKe/console-e2e/internal/fixture"
)

var (
	// ErrElementNotFound indicates no element matched a target before the
	// command timeout elapsed
	ErrElementNotFound = errors.New("element not found")
	// ErrClosed indicates the browser was already closed
	ErrClosed = errors.New("browser closed")
)

// Element is a snapshot of one DOM node taken at query time.
type Element struct {
	Text    string            `json:"text"`
	Attrs   map[string]string `json:"attrs"`
	Visible bool              `json:"visible"`
}

// Attr returns an attribute value and whether it is present.
func (e Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// Target identifies the element an action applies to.
type Target struct {
	// Selector is a CSS selector.
	Selector string
	// Contains restricts matches to elements whose text includes it.
	Contains string
	// Index picks the n-th match (0-based).
	Index int
	// Force skips the visibility requirement.
	Force bool
}

func (t Target) String() string {
	var b strings.Builder
	b.WriteString(t.Selector)
	if t.Contains != "" {
		fmt.Fprintf(&b, " containing %q", t.Contains)
	}
	if t.Index > 0 {
		fmt.Fprintf(&b, " [%d]", t.Index)
	}
	return b.String()
}

// Sel targets the first element matching selector.
func Sel(selector string) Target {
	return Target{Selector: selector}
}

// Contains targets the first element matching selector whose text
// includes text.
func Contains(selector, text string) Target {
	return Target{Selector: selector, Contains: text}
}

// Nth returns a copy of t targeting the i-th match.
func (t Target) Nth(i int) Target {
	t.Index = i
	return t
}

// Forced returns a copy of t that may act on hidden elements.
func (t Target) Forced() Target {
	t.Force = true
	return t
}

// Driver is a synchronous browser command surface. Every call completes or
// fails before returning; actions on targets wait up to CommandTimeout for
// the target to become actionable.
type Driver interface {
	// Visit navigates to a console path (joined with the base URL) or an
	// absolute URL.
	Visit(ctx context.Context, path string) error
	// URL returns the current location.
	URL(ctx context.Context) (string, error)
	// Elements snapshots every element matching selector without waiting.
	Elements(ctx context.Context, selector string) ([]Element, error)
	// Click clicks the target.
	Click(ctx context.Context, target Target) error
	// Type clears the target input and types text. A trailing "\n" submits.
	Type(ctx context.Context, target Target, text string) error
	// Eval evaluates a JavaScript expression and decodes its JSON result.
	Eval(ctx context.Context, expression string, out any) error
	// Intercept serves matching requests from a fixture route.
	Intercept(ctx context.Context, route fixture.Route) (*fixture.Alias, error)
	// ClearIntercepts drops every route registered with Intercept, so
	// requests reach the network again.
	ClearIntercepts()
	// Exceptions drains uncaught page exceptions that were not suppressed.
	Exceptions() []error
	// CommandTimeout is the default time budget of a single command or
	// assertion.
	CommandTimeout() time.Duration
	// Close releases the browser.
	Close() error
}

// Selectors for the console's stable test attributes.

// ByTestID selects [data-test="id"].
func ByTestID(id string) string {
	return fmt.Sprintf(`[data-test=%q]`, id)
}

// ByLegacyTestID selects [data-test-id="id"].
func ByLegacyTestID(id string) string {
	return fmt.Sprintf(`[data-test-id=%q]`, id)
}

// ByTestActionID selects [data-test-action="id"].
func ByTestActionID(id string) string {
	return fmt.Sprintf(`[data-test-action=%q]`, id)
}

// ByButtonText targets a button by its label.
func ByButtonText(text string) Target {
	return Contains("button", text)
}
