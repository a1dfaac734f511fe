// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

//go:build e2e

package scenarios

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/StringKe/console-e2e/internal/isolation"
	"github.com/StringKe/console-e2e/internal/should"
	"github.com/StringKe/console-e2e/internal/views"
	"github.com/StringKe/console-e2e/test/e2e/framework"
)

const testNetworkPolicy = "testnp"

var _ = Describe("Features on managed cluster such as ROSA/OSD", Ordered, Serial, func() {
	var (
		pages     *views.Pages
		operators *views.InstalledOperatorPage
		settings  *views.ClusterSettingPage
		search    *views.SearchPage
	)

	BeforeAll(func(ctx SpecContext) {
		setupTransaction(ctx, f.GrantClusterAdmin())
		Expect(f.Login(ctx)).To(Succeed())
		DeferCleanup(func(ctx SpecContext) {
			Expect(f.Session.Logout(ctx)).To(Succeed())
		})
		Expect(f.Session.CloseGuidedTour(ctx)).To(Succeed())

		pages = views.NewPages(f.Browser)
		operators = views.NewInstalledOperatorPage(f.Browser)
		settings = views.NewClusterSettingPage(f.Browser)
		search = views.NewSearchPage(f.Browser)
	})

	BeforeEach(func(ctx SpecContext) {
		managed, err := f.Session.IsManagedCluster(ctx)
		Expect(err).NotTo(HaveOccurred())
		if !managed {
			Skip("not a ROSA or OSD cluster")
		}
	})

	noLink := func(ctx context.Context, text string) {
		GinkgoHelper()
		Expect(should.NotContainText(ctx, f.Browser, "a", text)).To(Succeed())
	}

	It("(OCP-68381) Hide page-specific doc links for ROSA and OSD",
		labelE2E, labelOSD, labelROSA, labelAdmin, func(ctx SpecContext) {
			Expect(f.Session.SwitchPerspective(ctx, adminPerspective)).To(Succeed())

			By("hiding the update help link")
			Expect(pages.GotoClusterDetailsPage(ctx)).To(Succeed())
			noLink(ctx, "Learn more about")

			By("hiding the project creation help link")
			Expect(pages.GotoProjectCreationPage(ctx)).To(Succeed())
			noLink(ctx, "Learn more")

			By("hiding the DeploymentConfig help link")
			Expect(pages.GotoDeploymentConfigList(ctx, "default")).To(Succeed())
			noLink(ctx, "Learn more about")

			By("hiding the operators help link")
			Expect(operators.GoToWithNS(ctx, "default")).To(Succeed())
			noLink(ctx, "Understanding Operators")

			By("hiding the NetworkPolicy help link")
			manifest, err := f.Fixtures.Path("testnp-OCP-68381.yaml")
			Expect(err).NotTo(HaveOccurred())
			err = isolation.Run(ctx, f.Log,
				[]isolation.Step{isolation.ResourceFromFile(f.CLI, manifest, "networkpolicies", testNetworkPolicy, "default")},
				func(ctx context.Context) error {
					if err := pages.GotoOneNetworkPolicyDetails(ctx, "default", testNetworkPolicy); err != nil {
						return err
					}
					return should.NotContainText(ctx, f.Browser, "a", "NetworkPolicies documentation")
				})
			Expect(err).NotTo(HaveOccurred())

			By("hiding the project access help link")
			Expect(pages.GotoOneProjectAccessTab(ctx, framework.ConsoleNamespace)).To(Succeed())
			noLink(ctx, "access control documentation")
			Expect(f.Session.SwitchPerspective(ctx, adminPerspective)).To(Succeed())
		})

	It("(OCP-68228) Update button is disabled on ROSA/OSD cluster",
		labelE2E, labelOSD, labelROSA, labelAdmin, func(ctx SpecContext) {
			Expect(pages.GotoClusterDetailsPage(ctx)).To(Succeed())
			Expect(settings.CheckChannelNotEditable(ctx)).To(Succeed())
		})

	It("cluster settings are read only on ROSA/OSD cluster",
		labelE2E, labelOSD, labelROSA, labelAdmin, func(ctx SpecContext) {
			Expect(pages.GotoClusterDetailsPage(ctx)).To(Succeed())
			Expect(settings.CheckUpstreamURLDisabled(ctx)).To(Succeed())
			Expect(settings.CheckNoAutoscalerField(ctx)).To(Succeed())

			Expect(settings.GoToClusterSettingConfiguration(ctx)).To(Succeed())
			Expect(settings.CheckClusterVersionNotEditable(ctx)).To(Succeed())
			Expect(settings.CheckHiddenConfiguration(ctx)).To(Succeed())
		})

	It("machine resources are not searchable on ROSA/OSD cluster",
		labelE2E, labelOSD, labelROSA, labelAdmin, func(ctx SpecContext) {
			Expect(search.NavToSearchPage(ctx)).To(Succeed())
			Expect(search.CheckNoMachineResources(ctx)).To(Succeed())
		})
})
