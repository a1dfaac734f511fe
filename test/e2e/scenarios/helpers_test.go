// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

//go:build e2e

package scenarios

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/StringKe/console-e2e/internal/isolation"
)

// Ginkgo labels mirroring the suite's tag filter.
var (
	labelE2E       = Label("e2e")
	labelAdmin     = Label("admin")
	labelROSA      = Label("@rosa")
	labelOSD       = Label("@osd-ccs")
	labelNetObserv = Label("NETOBSERV")
)

// setupTransaction applies steps in a new transaction and registers its
// rollback with DeferCleanup so teardown runs even when setup or the specs
// fail.
func setupTransaction(ctx context.Context, steps ...isolation.Step) *isolation.Transaction {
	tx := f.NewTransaction()
	DeferCleanup(func(ctx SpecContext) {
		Expect(tx.Rollback(ctx)).To(Succeed(), "teardown")
	}, NodeTimeout(10*time.Minute))
	for _, step := range steps {
		Expect(tx.Do(ctx, step)).To(Succeed(), "setup %s", step.Name)
	}
	return tx
}

// loginAsAdmin grants cluster-admin for the lifetime of the container,
// signs in and switches to the Administrator perspective.
func loginAsAdmin(ctx context.Context) *isolation.Transaction {
	tx := setupTransaction(ctx, f.GrantClusterAdmin())
	Expect(f.Login(ctx)).To(Succeed())
	Expect(f.Session.CloseGuidedTour(ctx)).To(Succeed())
	Expect(f.Session.SwitchPerspective(ctx, adminPerspective)).To(Succeed())
	return tx
}
