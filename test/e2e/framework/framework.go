// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package framework provides the E2E test framework for the console suite.
// It owns the browser, the admin CLI and the cluster client of one run and
// hands them to specs explicitly.
package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/go-logr/logr"

	"github.com/StringKe/console-e2e/internal/browser"
	"github.com/StringKe/console-e2e/internal/cluster"
	"github.com/StringKe/console-e2e/internal/config"
	"github.com/StringKe/console-e2e/internal/fixture"
	"github.com/StringKe/console-e2e/internal/isolation"
	"github.com/StringKe/console-e2e/internal/logging"
	"github.com/StringKe/console-e2e/internal/oc"
	"github.com/StringKe/console-e2e/internal/operators"
	"github.com/StringKe/console-e2e/internal/session"
)

const (
	// DefaultTimeout is the default timeout for cluster operations
	DefaultTimeout = 5 * time.Minute
	// ClusterAdminRole is granted to the login user by most specs
	ClusterAdminRole = "cluster-admin"
	// ConsoleNamespace is where the console is deployed
	ConsoleNamespace = "openshift-console"
)

// Framework provides utilities for E2E testing
type Framework struct {
	Config    config.Config
	Log       logr.Logger
	Browser   browser.Driver
	CLI       *oc.CLI
	Kube      *cluster.Client
	Session   *session.Session
	Fixtures  *fixture.Loader
	Operators *operators.Installer

	ctx    context.Context
	cancel context.CancelFunc
}

// Options configures the test framework
type Options struct {
	// Config overrides the configuration read from the environment.
	Config *config.Config
	// LogWriter receives suite logs. Defaults to stdout.
	LogWriter io.Writer
	// Verbosity raises the log level.
	Verbosity int
	// SkipBrowser runs without a browser, for CLI-only specs.
	SkipBrowser bool
	// PinCatalogImages resolves catalog image tags to digests before
	// creating catalog sources.
	PinCatalogImages bool
	// FixturesDir is used when the configuration leaves the fixtures
	// directory at its default.
	FixturesDir string
}

// DefaultOptions returns default framework options
func DefaultOptions() *Options {
	verbosity, _ := strconv.Atoi(os.Getenv("E2E_VERBOSITY"))
	return &Options{
		LogWriter:        os.Stdout,
		Verbosity:        verbosity,
		SkipBrowser:      os.Getenv("E2E_SKIP_BROWSER") == "true",
		PinCatalogImages: os.Getenv("E2E_PIN_CATALOG") != "false",
	}
}

// New creates a new test framework
func New(opts *Options) (*Framework, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	var cfg config.Config
	if opts.Config != nil {
		cfg = *opts.Config
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("validate config: %w", err)
		}
	} else {
		var err error
		if cfg, err = config.Load(); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if opts.FixturesDir != "" && cfg.FixturesDir == config.DefaultFixturesDir {
		cfg.FixturesDir = opts.FixturesDir
	}

	ctx, cancel := context.WithCancel(context.Background())
	f := &Framework{
		Config:   cfg,
		Log:      logging.New(logging.Options{Writer: opts.LogWriter, Verbosity: opts.Verbosity}),
		Fixtures: fixture.NewLoader(cfg.FixturesDir),
		ctx:      ctx,
		cancel:   cancel,
	}

	f.CLI = oc.New(oc.Options{
		Binary:     cfg.OCBinary,
		Kubeconfig: cfg.KubeconfigPath,
		Timeout:    cfg.ExecTimeout.Duration,
		Log:        f.Log,
	})

	kube, err := cluster.NewFromKubeconfig(cfg.KubeconfigPath, f.Log)
	if err != nil {
		f.Cleanup()
		return nil, fmt.Errorf("create client: %w", err)
	}
	f.Kube = kube

	var resolver *operators.Resolver
	if opts.PinCatalogImages {
		resolver = operators.ResolverForCluster(ctx, kube.Raw(), operators.CatalogRegistry, f.Log)
	}
	f.Operators = operators.NewInstaller(operators.Options{
		CLI:      f.CLI,
		Kube:     f.Kube,
		Resolver: resolver,
		Log:      f.Log,
	})

	if !opts.SkipBrowser {
		chrome, err := browser.NewChrome(ctx, browser.Options{
			BaseURL:           cfg.BaseURL,
			Headless:          cfg.Headless,
			ExecPath:          cfg.ChromePath,
			CommandTimeout:    cfg.CommandTimeout.Duration,
			PageLoadTimeout:   cfg.PageLoadTimeout.Duration,
			PollInterval:      cfg.PollInterval.Duration,
			IgnoredExceptions: cfg.IgnoredExceptions,
			Fixtures:          f.Fixtures,
			Log:               f.Log,
		})
		if err != nil {
			f.Cleanup()
			return nil, fmt.Errorf("start browser: %w", err)
		}
		f.Browser = chrome
		f.Session = session.New(chrome, f.Log, cfg.PageLoadTimeout.Duration)
	}

	return f, nil
}

// Context returns the framework context
func (f *Framework) Context() context.Context {
	return f.ctx
}

// Cleanup releases the browser and cancels the framework context
func (f *Framework) Cleanup() {
	if f.Browser != nil {
		if err := f.Browser.Close(); err != nil {
			f.Log.Error(err, "Close browser")
		}
	}
	if f.cancel != nil {
		f.cancel()
	}
}

// Login signs the configured user in.
func (f *Framework) Login(ctx context.Context) error {
	if f.Session == nil {
		return errors.New("framework started without a browser")
	}
	return f.Session.Login(ctx, f.Config.LoginIDP, f.Config.LoginUsername, f.Config.LoginPassword)
}

// GrantClusterAdmin is the isolation step most specs start with: the login
// user is cluster-admin for the duration of the spec.
func (f *Framework) GrantClusterAdmin() isolation.Step {
	return isolation.ClusterRole(f.CLI, ClusterAdminRole, f.Config.LoginUsername)
}

// NewTransaction starts an isolation transaction logging through the
// framework logger.
func (f *Framework) NewTransaction() *isolation.Transaction {
	return isolation.New(f.Log)
}

// PageExceptions returns uncaught page exceptions as one error, or nil.
func (f *Framework) PageExceptions() error {
	if f.Browser == nil {
		return nil
	}
	return errors.Join(f.Browser.Exceptions()...)
}

// ResetIntercepts drops the intercept routes registered by the finished
// spec so they cannot answer requests of the next one.
func (f *Framework) ResetIntercepts() {
	if f.Browser == nil {
		return
	}
	f.Browser.ClearIntercepts()
}
