// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

//go:generate mockgen -destination=mock/mock_runner.go -package=mock github.com/StringKe/console-e2e/internal/oc Runner

package oc

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Command is one process invocation.
type Command struct {
	// Name is the executable.
	Name string
	Args []string
	// Env is appended to the current process environment.
	Env   []string
	Stdin []byte
}

// Output is what a finished process produced.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes processes. Implementations return an error only when the
// process could not be started or was interrupted; a non-zero exit is
// reported through Output.ExitCode.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

// ExecRunner runs commands on the local host.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Env = append(os.Environ(), cmd.Env...)
	if cmd.Stdin != nil {
		c.Stdin = bytes.NewReader(cmd.Stdin)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return out, nil
	case ctx.Err() != nil:
		return out, ctx.Err()
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	default:
		return out, err
	}
}
