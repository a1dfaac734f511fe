// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package should provides retrying assertions over the rendered console DOM.
//
// Every assertion is a predicate over the current DOM, re-evaluated at a
// polling interval until it holds or the timeout elapses. The default timeout
// is the driver's command timeout.
package should

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/StringKe/console-e2e/internal/browser"
)

// DefaultInterval is the polling interval between predicate evaluations.
const DefaultInterval = 250 * time.Millisecond

// ErrConditionNotMet is wrapped by every assertion that timed out.
var ErrConditionNotMet = errors.New("condition not met before timeout")

// AssertionError reports a failed assertion with the selector it was made on,
// what was expected and the last observed failure.
type AssertionError struct {
	Selector string
	Expected string
	Err      error
}

func (e *AssertionError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("expected %s: %v", e.Expected, e.Err)
	}
	return fmt.Sprintf("expected %s to %s: %v", e.Selector, e.Expected, e.Err)
}

func (e *AssertionError) Unwrap() error {
	return e.Err
}

// Check evaluates a predicate once. A nil result means it holds.
type Check func(ctx context.Context) error

type options struct {
	timeout  time.Duration
	interval time.Duration
}

// Option tunes a single assertion.
type Option func(*options)

// WithTimeout overrides the assertion timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithInterval overrides the polling interval.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		o.interval = d
	}
}

func buildOptions(timeout time.Duration, opts []Option) options {
	o := options{timeout: timeout, interval: DefaultInterval}
	for _, opt := range opts {
		opt(&o)
	}
	if o.interval <= 0 {
		o.interval = DefaultInterval
	}
	if o.timeout < o.interval {
		o.timeout = o.interval
	}
	return o
}

// Eventually evaluates check until it returns nil or timeout elapses. On
// timeout the returned error wraps ErrConditionNotMet and the last failure.
// A check failing with browser.ErrClosed aborts immediately.
func Eventually(ctx context.Context, timeout time.Duration, check Check, opts ...Option) error {
	o := buildOptions(timeout, opts)

	var last error
	err := wait.PollUntilContextTimeout(ctx, o.interval, o.timeout, true, func(ctx context.Context) (bool, error) {
		last = check(ctx)
		if errors.Is(last, browser.ErrClosed) {
			return false, last
		}
		return last == nil, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, browser.ErrClosed):
		return err
	case last == nil:
		return fmt.Errorf("%w after %s: %w", ErrConditionNotMet, o.timeout, err)
	default:
		return fmt.Errorf("%w after %s: %w", ErrConditionNotMet, o.timeout, last)
	}
}

// assert runs check against d with the driver's default timeout and wraps
// a failure in an AssertionError.
func assert(ctx context.Context, d browser.Driver, selector, expected string, check Check, opts []Option) error {
	if err := Eventually(ctx, d.CommandTimeout(), check, opts...); err != nil {
		return &AssertionError{Selector: selector, Expected: expected, Err: err}
	}
	return nil
}

// Exist asserts at least one element matches selector.
func Exist(ctx context.Context, d browser.Driver, selector string, opts ...Option) error {
	return assert(ctx, d, selector, "exist", func(ctx context.Context) error {
		els, err := d.Elements(ctx, selector)
		if err != nil {
			return err
		}
		if len(els) == 0 {
			return errors.New("no matching element")
		}
		return nil
	}, opts)
}

// NotExist asserts no element matches selector.
func NotExist(ctx context.Context, d browser.Driver, selector string, opts ...Option) error {
	return assert(ctx, d, selector, "not exist", func(ctx context.Context) error {
		els, err := d.Elements(ctx, selector)
		if err != nil {
			return err
		}
		if len(els) > 0 {
			return fmt.Errorf("found %d matching elements", len(els))
		}
		return nil
	}, opts)
}

// BeVisible asserts selector matches at least one element and all matches
// are visible.
func BeVisible(ctx context.Context, d browser.Driver, selector string, opts ...Option) error {
	return assert(ctx, d, selector, "be visible", func(ctx context.Context) error {
		els, err := d.Elements(ctx, selector)
		if err != nil {
			return err
		}
		if len(els) == 0 {
			return errors.New("no matching element")
		}
		for i, el := range els {
			if !el.Visible {
				return fmt.Errorf("element %d is hidden", i)
			}
		}
		return nil
	}, opts)
}

func joinedText(els []browser.Element) string {
	var b strings.Builder
	for _, el := range els {
		b.WriteString(el.Text)
	}
	return b.String()
}

// ContainText asserts the combined text of the matches includes text.
func ContainText(ctx context.Context, d browser.Driver, selector, text string, opts ...Option) error {
	return assert(ctx, d, selector, fmt.Sprintf("contain %q", text), func(ctx context.Context) error {
		els, err := d.Elements(ctx, selector)
		if err != nil {
			return err
		}
		if len(els) == 0 {
			return errors.New("no matching element")
		}
		if !strings.Contains(joinedText(els), text) {
			return fmt.Errorf("text was %q", truncate(joinedText(els)))
		}
		return nil
	}, opts)
}

// NotContainText asserts selector matches at least one element and none of
// them includes text.
func NotContainText(ctx context.Context, d browser.Driver, selector, text string, opts ...Option) error {
	return assert(ctx, d, selector, fmt.Sprintf("not contain %q", text), func(ctx context.Context) error {
		els, err := d.Elements(ctx, selector)
		if err != nil {
			return err
		}
		if len(els) == 0 {
			return errors.New("no matching element")
		}
		for i, el := range els {
			if strings.Contains(el.Text, text) {
				return fmt.Errorf("element %d has text %q", i, truncate(el.Text))
			}
		}
		return nil
	}, opts)
}

// HaveAttr asserts the first match carries attribute name with value.
func HaveAttr(ctx context.Context, d browser.Driver, selector, name, value string, opts ...Option) error {
	return assert(ctx, d, selector, fmt.Sprintf("have %s=%q", name, value), func(ctx context.Context) error {
		els, err := d.Elements(ctx, selector)
		if err != nil {
			return err
		}
		if len(els) == 0 {
			return errors.New("no matching element")
		}
		got, ok := els[0].Attr(name)
		if !ok {
			return fmt.Errorf("attribute %s is absent", name)
		}
		if got != value {
			return fmt.Errorf("attribute %s was %q", name, got)
		}
		return nil
	}, opts)
}

// HaveAttrContaining asserts the first match carries attribute name whose
// value includes substr.
func HaveAttrContaining(ctx context.Context, d browser.Driver, selector, name, substr string, opts ...Option) error {
	return assert(ctx, d, selector, fmt.Sprintf("have %s including %q", name, substr), func(ctx context.Context) error {
		els, err := d.Elements(ctx, selector)
		if err != nil {
			return err
		}
		if len(els) == 0 {
			return errors.New("no matching element")
		}
		got, ok := els[0].Attr(name)
		if !ok {
			return fmt.Errorf("attribute %s is absent", name)
		}
		if !strings.Contains(got, substr) {
			return fmt.Errorf("attribute %s was %q", name, got)
		}
		return nil
	}, opts)
}

func truncate(s string) string {
	const limit = 120
	if r := []rune(s); len(r) > limit {
		return string(r[:limit]) + "..."
	}
	return s
}
