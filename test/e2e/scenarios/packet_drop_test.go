// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

//go:build e2e

package scenarios

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/StringKe/console-e2e/internal/fixture"
	"github.com/StringKe/console-e2e/internal/operators"
	"github.com/StringKe/console-e2e/internal/should"
	"github.com/StringKe/console-e2e/internal/views"
	"github.com/StringKe/console-e2e/test/e2e/framework"
)

var _ = Describe("(OCP-66141 NETOBSERV) PacketDrop test", Ordered, Serial, labelNetObserv, func() {
	var netflow *views.NetflowPage

	BeforeAll(func(ctx SpecContext) {
		loginAsAdmin(ctx)

		netobserv := framework.NewNetObservContext(f.Config)
		f.Log.Info("Installing network observability", "catalog", netobserv.CatalogSource, "upstream", netobserv.Upstream)
		tx := setupTransaction(ctx, netobserv.Steps(f.Operators, operators.FeaturePacketDrop)...)
		DeferCleanup(func(ctx SpecContext) {
			Expect(f.Session.Logout(ctx)).To(Succeed())
		})
		f.Log.Info("Network observability ready", "steps", tx.Active())

		netflow = views.NewNetflowPage(f.Browser)
	}, NodeTimeout(30*time.Minute))

	BeforeEach(func(ctx SpecContext) {
		Expect(netflow.Visit(ctx)).To(Succeed())
	})

	AfterEach(func(ctx SpecContext) {
		Expect(netflow.ResetClearFilters(ctx)).To(Succeed())
	})

	It("(OCP-66141) Verify packetDrop panels", labelE2E, labelAdmin, func(ctx SpecContext) {
		Expect(netflow.StopAutoRefresh(ctx)).To(Succeed())

		By("checking the default packet drop panels")
		Expect(should.HavePanels(ctx, f.Browser, views.OverviewSelectors.DefaultPacketDropPanels)).To(Succeed())
		Expect(should.HavePanelCount(ctx, f.Browser, views.DefaultPacketDropPanelCount)).To(Succeed())

		By("listing every packet drop panel in the manage panels modal")
		Expect(netflow.OpenPanelsModal(ctx)).To(Succeed())
		Expect(netflow.CheckPopupItems(ctx, views.OverviewSelectors.PanelsModal,
			views.OverviewSelectors.ManagePacketDropPanelsList)).To(Succeed())

		By("selecting all panels")
		Expect(netflow.SelectAllPanels(ctx)).To(Succeed())
		Expect(netflow.WaitForLokiQuery(ctx)).To(Succeed())
		Expect(should.HavePanelCount(ctx, f.Browser, views.AllPacketDropPanelCount)).To(Succeed())
		Expect(netflow.WaitForLokiQuery(ctx)).To(Succeed())
		Expect(should.HavePanels(ctx, f.Browser, views.OverviewSelectors.AllPacketDropPanels)).To(Succeed())

		By("restoring the default panels")
		Expect(netflow.RestoreDefaultPanels(ctx)).To(Succeed())
		Expect(netflow.WaitForLokiQuery(ctx)).To(Succeed())
		Expect(should.HavePanels(ctx, f.Browser, views.OverviewSelectors.DefaultPacketDropPanels)).To(Succeed())
		Expect(should.HavePanelCount(ctx, f.Browser, views.DefaultPacketDropPanelCount)).To(Succeed())
	})

	It("(OCP-66141) Verify packetDrop Query Options filters", labelE2E, labelAdmin, func(ctx SpecContext) {
		Expect(netflow.StopAutoRefresh(ctx)).To(Succeed())
		Expect(netflow.GoToTrafficFlowsTab(ctx)).To(Succeed())

		for _, tc := range []struct {
			option  string
			drop    string
			fixture string
		}{
			{option: "Fully dropped", drop: views.PacketLossDropped, fixture: "netobserv/flow_records_fully_dropped.json"},
			{option: "Without drops", drop: views.PacketLossSent, fixture: "netobserv/flow_records_without_drops.json"},
			{option: "Containing drops", drop: views.PacketLossHasDrops, fixture: "netobserv/flow_records_containing_drops.json"},
		} {
			By("switching the query option to " + tc.option)
			alias, err := f.Browser.Intercept(ctx, fixture.Route{
				Method:  "GET",
				URL:     views.PacketDropURL(tc.drop),
				Fixture: tc.fixture,
				Alias:   "matchedUrl",
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(netflow.ChangeQueryOption(ctx, tc.option)).To(Succeed())
			Expect(netflow.WaitForLokiQuery(ctx)).To(Succeed())
			Expect(alias.Wait(ctx, should.DefaultInterval, f.Browser.CommandTimeout())).To(Succeed(),
				"the flow table did not request %s", views.PacketDropURL(tc.drop))
		}
	})

	It("(OCP-66141) Validate packetDrop filters", labelE2E, labelAdmin, func(ctx SpecContext) {
		Expect(netflow.StopAutoRefresh(ctx)).To(Succeed())

		By("filtering on the TCP drop state")
		Expect(netflow.AddFilter(ctx, "group-2-toggle", "pkt_drop_state", "INVALID_STATE")).To(Succeed())
		Expect(netflow.CheckFilterChip(ctx, "Packet drop TCP state", "INVALID_STATE")).To(Succeed())
		Expect(netflow.CheckDonutSingleLegend(ctx, "#top_dropped_state_donut", "TCP_INVALID_STATE")).To(Succeed())

		By("filtering on the latest drop cause")
		Expect(netflow.AddFilter(ctx, "", "pkt_drop_cause", "NO_SOCKET")).To(Succeed())
		Expect(netflow.CheckFilterChip(ctx, "Packet drop latest cause", "NO_SOCKET")).To(Succeed())
		Expect(netflow.CheckDonutSingleLegend(ctx, "#top_dropped_cause_donut", "SKB_DROP_REASON_NO_SOCKET")).To(Succeed())
	})
})
