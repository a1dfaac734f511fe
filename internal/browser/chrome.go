// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package browser

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/StringKe/console-e2e/internal/fixture"
)

const (
	// DefaultCommandTimeout bounds a single command when Options leaves it
	// unset.
	DefaultCommandTimeout = 40 * time.Second
	// DefaultPageLoadTimeout bounds navigation.
	DefaultPageLoadTimeout = 2 * time.Minute
	// DefaultPollInterval is the retry interval while resolving targets.
	DefaultPollInterval = 250 * time.Millisecond

	targetAttr = "data-e2e-target"
)

// Options configures a Chrome driver.
type Options struct {
	BaseURL           string
	Headless          bool
	ExecPath          string
	CommandTimeout    time.Duration
	PageLoadTimeout   time.Duration
	PollInterval      time.Duration
	IgnoredExceptions []string
	Fixtures          *fixture.Loader
	Log               logr.Logger
}

// Chrome drives a Chrome tab through the DevTools protocol.
type Chrome struct {
	opts Options
	log  logr.Logger

	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc

	router     *fixture.Router
	exceptions *ExceptionPolicy

	interceptMu      sync.Mutex
	interceptEnabled bool

	seq    atomic.Int64
	closed atomic.Bool
}

var _ Driver = (*Chrome)(nil)

// NewChrome starts a browser and opens one tab.
func NewChrome(ctx context.Context, opts Options) (*Chrome, error) {
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = DefaultCommandTimeout
	}
	if opts.PageLoadTimeout <= 0 {
		opts.PageLoadTimeout = DefaultPageLoadTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	log := opts.Log.WithName("browser")

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.IgnoreCertErrors,
		chromedp.WindowSize(1920, 1080),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		log.V(2).Info(fmt.Sprintf(format, args...))
	}))

	c := &Chrome{
		opts:        opts,
		log:         log,
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		router:      fixture.NewRouter(opts.Fixtures),
		exceptions:  NewExceptionPolicy(log, opts.IgnoredExceptions...),
	}
	chromedp.ListenTarget(tabCtx, c.onEvent)

	// The first Run launches the browser process.
	if err := chromedp.Run(tabCtx, runtime.Enable()); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	log.Info("Browser started", "headless", opts.Headless, "baseURL", opts.BaseURL)
	return c, nil
}

func (c *Chrome) onEvent(ev any) {
	switch e := ev.(type) {
	case *runtime.EventExceptionThrown:
		if e.ExceptionDetails == nil {
			return
		}
		msg := e.ExceptionDetails.Text
		if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
			msg = e.ExceptionDetails.Exception.Description
		}
		c.exceptions.Record(msg, e.ExceptionDetails.URL)
	case *fetch.EventRequestPaused:
		// Listeners must not block the event loop.
		go c.handlePaused(e)
	}
}

func (c *Chrome) handlePaused(e *fetch.EventRequestPaused) {
	var action chromedp.Action = fetch.ContinueRequest(e.RequestID)
	if e.Request != nil {
		if resp, ok := c.router.Match(e.Request.Method, e.Request.URL); ok {
			c.log.V(1).Info("Serving fixture", "method", e.Request.Method, "url", e.Request.URL)
			action = fetch.FulfillRequest(e.RequestID, int64(resp.StatusCode)).
				WithResponseHeaders([]*fetch.HeaderEntry{{Name: "Content-Type", Value: resp.ContentType}}).
				WithBody(base64.StdEncoding.EncodeToString(resp.Body))
		}
	}
	if err := chromedp.Run(c.ctx, action); err != nil && !c.closed.Load() {
		c.log.V(1).Info("Failed to resolve paused request", "error", err.Error())
	}
}

// scoped derives a command context from the tab context that also ends when
// the caller's ctx does.
func (c *Chrome) scoped(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(c.ctx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (c *Chrome) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if c.closed.Load() {
		return ErrClosed
	}
	runCtx, cancel := c.scoped(ctx, timeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

func (c *Chrome) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.opts.BaseURL + path
}

// Visit implements Driver.
func (c *Chrome) Visit(ctx context.Context, path string) error {
	url := c.resolveURL(path)
	c.log.V(1).Info("Visit", "url", url)
	if err := c.run(ctx, c.opts.PageLoadTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("visit %s: %w", url, err)
	}
	return nil
}

// URL implements Driver.
func (c *Chrome) URL(ctx context.Context) (string, error) {
	var loc string
	if err := c.run(ctx, c.opts.CommandTimeout, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return loc, nil
}

// Elements implements Driver.
func (c *Chrome) Elements(ctx context.Context, selector string) ([]Element, error) {
	var out []Element
	if err := c.Eval(ctx, snapshotScript(selector), &out); err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}
	return out, nil
}

// resolve marks the target element with a unique attribute, retrying until
// the command timeout elapses, and returns a selector for the mark.
func (c *Chrome) resolve(ctx context.Context, t Target) (string, error) {
	marker := fmt.Sprintf("t%d", c.seq.Add(1))
	script := markScript(t, marker)

	err := wait.PollUntilContextTimeout(ctx, c.opts.PollInterval, c.opts.CommandTimeout, true,
		func(ctx context.Context) (bool, error) {
			var found bool
			if err := c.Eval(ctx, script, &found); err != nil {
				if errors.Is(err, ErrClosed) {
					return false, err
				}
				// Navigation in flight; retry.
				return false, nil
			}
			return found, nil
		})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrElementNotFound, t, err)
	}
	return fmt.Sprintf(`[%s=%q]`, targetAttr, marker), nil
}

// Click implements Driver.
func (c *Chrome) Click(ctx context.Context, t Target) error {
	sel, err := c.resolve(ctx, t)
	if err != nil {
		return err
	}
	c.log.V(1).Info("Click", "target", t.String())
	if t.Force {
		var ok bool
		return c.Eval(ctx, fmt.Sprintf(`(() => { const el = document.querySelector(%s); if (!el) return false; el.click(); return true; })()`, JSString(sel)), &ok)
	}
	if err := c.run(ctx, c.opts.CommandTimeout, chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("click %s: %w", t, err)
	}
	return nil
}

// Type implements Driver.
func (c *Chrome) Type(ctx context.Context, t Target, text string) error {
	sel, err := c.resolve(ctx, t)
	if err != nil {
		return err
	}
	keys := strings.ReplaceAll(text, "\n", kb.Enter)
	if err := c.run(ctx, c.opts.CommandTimeout,
		chromedp.Clear(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, keys, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("type into %s: %w", t, err)
	}
	return nil
}

// Eval implements Driver.
func (c *Chrome) Eval(ctx context.Context, expression string, out any) error {
	var raw []byte
	if err := c.run(ctx, c.opts.CommandTimeout, chromedp.Evaluate(expression, &raw)); err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode evaluation result: %w", err)
	}
	return nil
}

// Intercept implements Driver. Request interception is enabled on first
// use for XHR and fetch requests; unmatched requests continue to the network.
func (c *Chrome) Intercept(ctx context.Context, route fixture.Route) (*fixture.Alias, error) {
	alias, err := c.router.Add(route)
	if err != nil {
		return nil, err
	}

	c.interceptMu.Lock()
	defer c.interceptMu.Unlock()
	if !c.interceptEnabled {
		patterns := []*fetch.RequestPattern{
			{URLPattern: "*", ResourceType: network.ResourceTypeXHR, RequestStage: fetch.RequestStageRequest},
			{URLPattern: "*", ResourceType: network.ResourceTypeFetch, RequestStage: fetch.RequestStageRequest},
		}
		if err := c.run(ctx, c.opts.CommandTimeout, fetch.Enable().WithPatterns(patterns)); err != nil {
			return nil, fmt.Errorf("enable request interception: %w", err)
		}
		c.interceptEnabled = true
	}
	c.log.Info("Intercepting requests", "method", route.Method, "url", route.URL, "alias", route.Alias)
	return alias, nil
}

// ClearIntercepts implements Driver. Interception stays enabled; with no
// routes every paused request continues unchanged.
func (c *Chrome) ClearIntercepts() {
	if n := c.router.Len(); n > 0 {
		c.log.V(1).Info("Clearing intercept routes", "routes", n)
	}
	c.router.Reset()
}

// Exceptions implements Driver.
func (c *Chrome) Exceptions() []error {
	return c.exceptions.Drain()
}

// CommandTimeout implements Driver.
func (c *Chrome) CommandTimeout() time.Duration {
	return c.opts.CommandTimeout
}

// Close implements Driver.
func (c *Chrome) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.cancelTab()
	c.cancelAlloc()
	c.log.Info("Browser closed", "suppressedExceptions", c.exceptions.Suppressed())
	return nil
}
