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

	"github.com/StringKe/console-e2e/internal/browser"
	"github.com/StringKe/console-e2e/internal/should"
	"github.com/StringKe/console-e2e/internal/views"
)

const (
	pseudoTestNamespace = "openshift-apiserver"
	quickStartCRD       = "consolequickstarts.console.openshift.io"
)

var _ = Describe("Administration pages pseudo translation", Ordered, func() {
	var (
		pages *views.Pages
		list  *views.ListPage
	)

	BeforeAll(func(ctx SpecContext) {
		loginAsAdmin(ctx)
		DeferCleanup(func(ctx SpecContext) {
			Expect(f.Session.Logout(ctx)).To(Succeed())
		})
		pages = views.NewPages(f.Browser)
		list = views.NewListPage(f.Browser)
	})

	visitPseudo := func(ctx context.Context, path string) {
		GinkgoHelper()
		Expect(f.Browser.Visit(ctx, path+"?"+pseudoQuery)).To(Succeed())
	}

	pseudo := func(ctx context.Context, selectors ...string) {
		GinkgoHelper()
		for _, sel := range selectors {
			Expect(should.BePseudoLocalized(ctx, f.Browser, sel)).To(Succeed(), "selector %s", sel)
		}
	}

	detailsPage := func(ctx context.Context) {
		GinkgoHelper()
		pseudo(ctx,
			views.DetailsPageSelector.HorizontalNavTabs,
			views.DetailsPageSelector.ItemLabels,
			views.DetailsPageSelector.SectionHeadings)
	}

	actionsMenu := func(ctx context.Context) {
		GinkgoHelper()
		Expect(f.Browser.Click(ctx, browser.Sel(views.DetailsPageSelector.ActionsMenu))).To(Succeed())
		pseudo(ctx, views.DetailsPageSelector.MenuItems)
	}

	listPage := func(ctx context.Context) {
		GinkgoHelper()
		Expect(list.RowsShouldBeLoaded(ctx, should.WithTimeout(pseudoLoadTimeout))).To(Succeed())
		Expect(should.TestI18n(ctx, f.Browser,
			[]string{views.ListPageSelector.TableColumnHeaders}, []string{"item-create"})).To(Succeed())
	}

	It("(OCP-35766) administration pages pseudo translation", labelE2E, labelAdmin, labelOSD, func(ctx SpecContext) {
		By("translating the cluster settings details")
		visitPseudo(ctx, "/settings/cluster")
		Expect(should.Exist(ctx, f.Browser, ".co-cluster-settings__section",
			should.WithTimeout(pseudoLoadTimeout))).To(Succeed())
		pseudo(ctx, ".co-cluster-settings")
		detailsPage(ctx)
		pseudo(ctx, "th")

		By("translating the cluster operators")
		visitPseudo(ctx, "/settings/cluster/clusteroperators")
		Expect(list.RowsShouldBeLoaded(ctx, should.WithTimeout(pseudoLoadTimeout))).To(Succeed())
		pseudo(ctx, views.ListPageSelector.TableColumnHeaders)

		By("translating the cluster configuration")
		visitPseudo(ctx, "/settings/cluster/globalconfig")
		Expect(should.Exist(ctx, f.Browser, ".co-m-table-grid",
			should.WithTimeout(pseudoLoadTimeout))).To(Succeed())
		pseudo(ctx, ".co-help-text", views.ListPageSelector.ItemFilter, ".co-m-table-grid__head")

		By("translating the namespace list")
		Expect(pages.GotoNamespaces(ctx, pseudoQuery)).To(Succeed())
		listPage(ctx)
		Expect(list.OpenFirstKebab(ctx)).To(Succeed())
		pseudo(ctx, views.DetailsPageSelector.MenuItems)

		By("translating the namespace details")
		Expect(list.ClickFirstResource(ctx)).To(Succeed())
		detailsPage(ctx)
		actionsMenu(ctx)

		By("translating the roles of " + pseudoTestNamespace)
		visitPseudo(ctx, fmt.Sprintf("/k8s/cluster/namespaces/%s/roles", pseudoTestNamespace))
		listPage(ctx)

		By("translating the CustomResourceDefinitions list")
		visitPseudo(ctx, "/k8s/cluster/customresourcedefinitions")
		listPage(ctx)

		By("translating the CustomResourceDefinition details")
		Expect(list.FilterByItem(ctx, "consolequickstart")).To(Succeed())
		Expect(f.Browser.Click(ctx, browser.Sel(browser.ByLegacyTestID("ConsoleQuickStart")))).To(Succeed())
		detailsPage(ctx)
		pseudo(ctx, ".co-m-table-grid__head")
		actionsMenu(ctx)

		By("translating the CustomResourceDefinition instances")
		visitPseudo(ctx, fmt.Sprintf("/k8s/cluster/customresourcedefinitions/%s/instances", quickStartCRD))
		listPage(ctx)
	}, SpecTimeout(10*time.Minute))
})
