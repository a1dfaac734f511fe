// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

//go:build e2e

package scenarios

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/StringKe/console-e2e/internal/isolation"
	"github.com/StringKe/console-e2e/internal/should"
	"github.com/StringKe/console-e2e/test/e2e/framework"
)

const routeRegenerateTimeout = 3 * time.Minute

// consoleRouteHost reads the console route host through the admin CLI.
func consoleRouteHost(ctx context.Context) string {
	res, err := f.CLI.AdminCLI(ctx, fmt.Sprintf(
		`oc get route %s -n %s -o template --template="{{.spec.host}}"`, consoleRoute, framework.ConsoleNamespace))
	Expect(err).NotTo(HaveOccurred())
	return res.Stdout
}

// hostRestored waits until the operator regenerated the route with host.
func hostRestored(ctx context.Context, host string) error {
	return should.Eventually(ctx, routeRegenerateTimeout, func(ctx context.Context) error {
		got, err := f.Kube.RouteHost(ctx, consoleRoute, framework.ConsoleNamespace)
		if err != nil {
			return err
		}
		if got != host {
			return fmt.Errorf("route host is %q, want %q", got, host)
		}
		return nil
	}, should.WithInterval(5*time.Second))
}

// appsDomain sets a custom apps domain on the cluster ingress config and
// removes it on rollback.
func appsDomain(domain string) isolation.Step {
	return isolation.Step{
		Name: "ingress appsDomain " + domain,
		Setup: func(ctx context.Context) error {
			return f.CLI.Patch(ctx, "ingress.config", "cluster", "", "merge",
				fmt.Sprintf(`{"spec":{"appsDomain":%q}}`, domain))
		},
		Teardown: func(ctx context.Context) error {
			return f.CLI.Patch(ctx, "ingress.config", "cluster", "", "merge", `{"spec":{"appsDomain":null}}`)
		},
		Verify: func(ctx context.Context) error {
			got, err := f.Kube.AppsDomain(ctx)
			if err != nil {
				return err
			}
			if got != "" {
				return fmt.Errorf("%w: appsDomain %q", isolation.ErrStillPresent, got)
			}
			return nil
		},
	}
}

var _ = Describe("console-route", Ordered, Serial, func() {
	var (
		host string
		tx   *isolation.Transaction
	)

	BeforeAll(func(ctx SpecContext) {
		tx = setupTransaction(ctx)
		Expect(f.Login(ctx)).To(Succeed())
		DeferCleanup(func(ctx SpecContext) {
			Expect(f.Session.Logout(ctx)).To(Succeed())
		})
		Expect(f.Session.CloseGuidedTour(ctx)).To(Succeed())
		host = consoleRouteHost(ctx)
		Expect(host).NotTo(BeEmpty())
	})

	It("(OCP-64619) console route should be re-generated using cluster domain",
		labelE2E, labelAdmin, labelROSA, labelOSD, func(ctx SpecContext) {
			res, err := f.CLI.AdminCLI(ctx, fmt.Sprintf(
				`oc get route %s -n %s -ojsonpath="{.metadata.annotations}"`, consoleRoute, framework.ConsoleNamespace))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Stdout).To(ContainSubstring(`"haproxy.router.openshift.io/timeout":"5m"`))

			By("replacing the route host")
			Expect(f.CLI.Patch(ctx, "route", consoleRoute, framework.ConsoleNamespace, "json",
				`[{"op":"replace","path":"/spec/host","value":"example.com"}]`)).To(Succeed())
			Expect(hostRestored(ctx, host)).To(Succeed())
			Expect(consoleRouteHost(ctx)).To(ContainSubstring(host))

			By("deleting the route with a custom apps domain set")
			Expect(tx.Do(ctx, appsDomain("testdomain.com"))).To(Succeed())
			Expect(f.CLI.Delete(ctx, "route", consoleRoute, framework.ConsoleNamespace)).To(Succeed())
			Expect(hostRestored(ctx, host)).To(Succeed())
			Expect(consoleRouteHost(ctx)).To(ContainSubstring(host))
		}, SpecTimeout(10*time.Minute))
})
