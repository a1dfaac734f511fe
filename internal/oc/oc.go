// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package oc runs cluster administration commands against the cluster under
// test.
//
// Every invocation is synchronous and carries the configured kubeconfig
// through the KUBECONFIG environment variable. A non-zero exit is an
// *ExitError unless the caller passes AllowFailure. Nothing is retried.
package oc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// DefaultTimeout bounds one command when Options leaves it unset.
const DefaultTimeout = 60 * time.Second

// Result is a finished command.
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// ExitError is returned for a non-zero exit.
type ExitError struct {
	Result *Result
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Result.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(e.Result.Stdout)
	}
	return fmt.Sprintf("command %q exited with code %d: %s", e.Result.Command, e.Result.ExitCode, msg)
}

// IsNotFound reports whether err is an ExitError caused by a missing
// resource.
func IsNotFound(err error) bool {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	return isNotFoundOutput(exitErr.Result.Stderr)
}

func isNotFoundOutput(stderr string) bool {
	return strings.Contains(stderr, "NotFound") || strings.Contains(stderr, "not found")
}

// Options configures a CLI.
type Options struct {
	// Binary is the oc executable. Defaults to "oc".
	Binary string
	// Kubeconfig is exported as KUBECONFIG to every command.
	Kubeconfig string
	// Timeout bounds each command. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Runner executes commands. Defaults to ExecRunner.
	Runner Runner
	Log    logr.Logger
}

// CLI is the admin command line bridge.
type CLI struct {
	binary     string
	kubeconfig string
	timeout    time.Duration
	runner     Runner
	log        logr.Logger
}

// New creates a CLI.
func New(opts Options) *CLI {
	if opts.Binary == "" {
		opts.Binary = "oc"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	return &CLI{
		binary:     opts.Binary,
		kubeconfig: opts.Kubeconfig,
		timeout:    opts.Timeout,
		runner:     opts.Runner,
		log:        opts.Log.WithName("oc"),
	}
}

type callOptions struct {
	allowFailure bool
	stdin        []byte
	timeout      time.Duration
}

// CallOption tunes one invocation.
type CallOption func(*callOptions)

// AllowFailure returns the result of a non-zero exit instead of an error.
func AllowFailure() CallOption {
	return func(o *callOptions) {
		o.allowFailure = true
	}
}

// WithStdin feeds data to the command.
func WithStdin(data []byte) CallOption {
	return func(o *callOptions) {
		o.stdin = data
	}
}

// WithTimeout overrides the command timeout.
func WithTimeout(d time.Duration) CallOption {
	return func(o *callOptions) {
		o.timeout = d
	}
}

// AdminCLI runs a command line through the shell, e.g.
// `oc adm policy add-cluster-role-to-user cluster-admin alice`. A leading
// "oc " is rewritten to the configured binary.
func (c *CLI) AdminCLI(ctx context.Context, command string, opts ...CallOption) (*Result, error) {
	line := strings.TrimSpace(command)
	if c.binary != "oc" && strings.HasPrefix(line, "oc ") {
		line = c.binary + line[len("oc"):]
	}
	return c.exec(ctx, Command{Name: "sh", Args: []string{"-c", line}}, line, opts)
}

// Run runs the oc binary with args, without a shell.
func (c *CLI) Run(ctx context.Context, args ...string) (*Result, error) {
	return c.RunWith(ctx, args)
}

// RunWith is Run with per-call options.
func (c *CLI) RunWith(ctx context.Context, args []string, opts ...CallOption) (*Result, error) {
	display := strings.Join(append([]string{"oc"}, args...), " ")
	return c.exec(ctx, Command{Name: c.binary, Args: args}, display, opts)
}

func (c *CLI) exec(ctx context.Context, cmd Command, display string, opts []CallOption) (*Result, error) {
	o := callOptions{timeout: c.timeout}
	for _, opt := range opts {
		opt(&o)
	}
	if c.kubeconfig != "" {
		cmd.Env = append(cmd.Env, "KUBECONFIG="+c.kubeconfig)
	}
	cmd.Stdin = o.stdin

	runCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	c.log.V(1).Info("Running command", "command", display)
	start := time.Now()
	out, err := c.runner.Run(runCtx, cmd)
	res := &Result{
		Command:  display,
		Stdout:   string(out.Stdout),
		Stderr:   string(out.Stderr),
		ExitCode: out.ExitCode,
	}
	if err != nil {
		c.log.Error(err, "Command did not complete", "command", display)
		return res, fmt.Errorf("run %q: %w", display, err)
	}
	c.log.V(1).Info("Command finished", "command", display, "exitCode", res.ExitCode, "duration", time.Since(start).String())

	if res.ExitCode != 0 {
		if o.allowFailure {
			c.log.Info("Tolerated command failure", "command", display, "exitCode", res.ExitCode, "stderr", strings.TrimSpace(res.Stderr))
			return res, nil
		}
		return res, &ExitError{Result: res}
	}
	return res, nil
}
