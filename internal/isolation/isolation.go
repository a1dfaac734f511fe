// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package isolation pairs every cluster-side setup step with its teardown.
//
// A Transaction records each step whose setup succeeded. Rollback tears the
// recorded steps down in reverse order, keeps going when one fails and
// returns every failure as one aggregate, so a spec restores the cluster
// state it found even after its body failed.
package isolation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// DefaultTeardownTimeout bounds each teardown and verification.
const DefaultTeardownTimeout = 3 * time.Minute

// Step is one reversible change to the cluster.
type Step struct {
	// Name identifies the step in logs and errors.
	Name string
	// Setup applies the change.
	Setup func(ctx context.Context) error
	// Teardown reverts it. Teardowns should tolerate an already reverted
	// change.
	Teardown func(ctx context.Context) error
	// Verify optionally confirms the teardown restored the prior state,
	// e.g. that a created resource is gone.
	Verify func(ctx context.Context) error
}

// Phase names where a Run failed.
type Phase string

// Phases of a Run.
const (
	PhaseSetup    Phase = "setup"
	PhaseBody     Phase = "body"
	PhaseTeardown Phase = "teardown"
)

// PhaseError is a failure in one phase of a Run.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// StepError is a failure of a single step.
type StepError struct {
	Step string
	Op   string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ErrInvalidStep is returned for a step without a name or setup.
var ErrInvalidStep = errors.New("invalid isolation step")

// Transaction tracks applied steps.
type Transaction struct {
	log             logr.Logger
	teardownTimeout time.Duration

	mu      sync.Mutex
	applied []Step
}

// New creates an empty Transaction.
func New(log logr.Logger) *Transaction {
	return &Transaction{log: log.WithName("isolation"), teardownTimeout: DefaultTeardownTimeout}
}

// WithTeardownTimeout sets the per-step teardown timeout.
func (t *Transaction) WithTeardownTimeout(d time.Duration) *Transaction {
	if d > 0 {
		t.teardownTimeout = d
	}
	return t
}

// Do runs the setup of step and records it for Rollback. A failed setup is
// not recorded.
func (t *Transaction) Do(ctx context.Context, step Step) error {
	if step.Name == "" || step.Setup == nil {
		return fmt.Errorf("%w: name and setup are required", ErrInvalidStep)
	}
	t.log.Info("Setting up", "step", step.Name)
	if err := step.Setup(ctx); err != nil {
		return &StepError{Step: step.Name, Op: "setup", Err: err}
	}
	t.mu.Lock()
	t.applied = append(t.applied, step)
	t.mu.Unlock()
	return nil
}

// Active returns the names of the recorded steps in setup order.
func (t *Transaction) Active() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.applied))
	for _, s := range t.applied {
		names = append(names, s.Name)
	}
	return names
}

// Rollback tears down every recorded step, newest first. Teardown runs even
// when ctx is already cancelled; each step gets its own timeout. The
// transaction is empty afterwards.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	steps := t.applied
	t.applied = nil
	t.mu.Unlock()

	base := context.WithoutCancel(ctx)
	var errs []error
	for i := len(steps) - 1; i >= 0; i-- {
		if err := t.teardown(base, steps[i]); err != nil {
			t.log.Error(err, "Teardown failed", "step", steps[i].Name)
			errs = append(errs, err)
		}
	}
	return utilerrors.NewAggregate(errs)
}

func (t *Transaction) teardown(ctx context.Context, step Step) error {
	ctx, cancel := context.WithTimeout(ctx, t.teardownTimeout)
	defer cancel()

	t.log.Info("Tearing down", "step", step.Name)
	if step.Teardown != nil {
		if err := step.Teardown(ctx); err != nil {
			return &StepError{Step: step.Name, Op: "teardown", Err: err}
		}
	}
	if step.Verify != nil {
		if err := step.Verify(ctx); err != nil {
			return &StepError{Step: step.Name, Op: "verify", Err: err}
		}
	}
	return nil
}

// Run applies steps in order, runs body and rolls back. Body and teardown
// failures are reported as separate PhaseErrors in one aggregate. When a
// setup fails the body is skipped and the steps applied so far are rolled
// back.
func Run(ctx context.Context, log logr.Logger, steps []Step, body func(ctx context.Context) error) error {
	tx := New(log)
	var errs []error

	setupOK := true
	for _, step := range steps {
		if err := tx.Do(ctx, step); err != nil {
			errs = append(errs, &PhaseError{Phase: PhaseSetup, Err: err})
			setupOK = false
			break
		}
	}
	if setupOK && body != nil {
		if err := body(ctx); err != nil {
			errs = append(errs, &PhaseError{Phase: PhaseBody, Err: err})
		}
	}
	if err := tx.Rollback(ctx); err != nil {
		errs = append(errs, &PhaseError{Phase: PhaseTeardown, Err: err})
	}
	return utilerrors.NewAggregate(errs)
}
