// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package views

import (
	"context"
	"time"

	"github.com/StringKe/console-e2e/internal/browser"
	"github.com/StringKe/console-e2e/internal/fixture"
	"github.com/StringKe/console-e2e/internal/should"
)

// Packet loss query options of the flow table, keyed by the value the
// console sends in the packetLoss parameter.
const (
	PacketLossDropped  = "dropped"
	PacketLossHasDrops = "hasDrops"
	PacketLossSent     = "sent"
	PacketLossAll      = "all"
)

// NetflowLoadTimeout bounds the first render of the traffic page, which
// waits on Loki.
const NetflowLoadTimeout = 60 * time.Second

// overviewSelectorSet groups the selectors of the overview dashboard.
type overviewSelectorSet struct {
	ViewOptions  string
	ManagePanels string
	PanelsModal  string
	ResetDefault string
	Save         string

	// ManagePacketDropPanelsList are the packet drop entries of the
	// manage panels modal.
	ManagePacketDropPanelsList []string
	// DefaultPacketDropPanels render once packet drop is enabled.
	DefaultPacketDropPanels []string
	// AllPacketDropPanels render after "Select all".
	AllPacketDropPanels []string
}

// Panel counts of the packet drop dashboard.
const (
	DefaultPacketDropPanelCount = 7
	AllPacketDropPanelCount     = 11
)

var defaultPacketDropPanels = []string{
	"#top_avg_byte_rates",
	"#top_stacked_byte_rates",
	"#top_avg_dropped_packet_rates",
	"#top_stacked_dropped_packet_rates",
	"#top_dropped_state_donut",
	"#top_dropped_cause_donut",
	"#packet_dropped_total_rate",
}

// OverviewSelectors are the overview dashboard selectors.
var OverviewSelectors = overviewSelectorSet{
	ViewOptions:  "view-options-button",
	ManagePanels: "#view-options-dropdown > ul > section:nth-child(1) > ul > li:nth-child(1) > a",
	PanelsModal:  "#overview-panels-modal",
	ResetDefault: "panels-reset-button",
	Save:         "panels-save-button",
	ManagePacketDropPanelsList: []string{
		"Top X average dropped packets rates",
		"Top X dropped packets rates stacked with total",
		"Top X average dropped bytes rates",
		"Top X dropped bytes rates stacked with total",
		"Top X dropped state",
		"Top X dropped cause",
		"Total dropped rate",
	},
	DefaultPacketDropPanels: defaultPacketDropPanels,
	AllPacketDropPanels: append(append([]string{}, defaultPacketDropPanels...),
		"#top_avg_packet_rates",
		"#top_stacked_packet_rates",
		"#top_avg_dropped_byte_rates",
		"#top_stacked_dropped_byte_rates",
	),
}

// packetDropQuery is the query the flow table issues, in the order the
// console sends it.
var packetDropQuery = fixture.Query{}.
	Add("timeRange", "300").
	Add("reporter", "destination").
	Add("function", "last").
	Add("type", "bytes").
	Add("recordType", "flowLog").
	Add("filters", "").
	Add("limit", "50").
	Add("showDup", "false").
	Add("match", "all").
	Add("packetLoss", PacketLossAll)

// PacketDropURL is the intercept template of the flow table request for a
// packet loss option. A template that drifts from what the console sends
// never matches, so callers should assert the alias was hit.
func PacketDropURL(drop string) string {
	return fixture.URLTemplate("**/netflow-traffic", packetDropQuery.Set("packetLoss", drop))
}

// NetflowPage is the network traffic page of the network observability
// plugin.
type NetflowPage struct {
	d browser.Driver
}

// NewNetflowPage creates the page object.
func NewNetflowPage(d browser.Driver) *NetflowPage {
	return &NetflowPage{d: d}
}

// Visit opens /netflow-traffic with cleared local storage and waits for the
// first query to return results.
func (p *NetflowPage) Visit(ctx context.Context) error {
	if err := p.d.Visit(ctx, "/netflow-traffic"); err != nil {
		return err
	}
	var ignored bool
	if err := p.d.Eval(ctx, `(() => { window.localStorage.clear(); return true; })()`, &ignored); err != nil {
		return err
	}
	if err := p.d.Visit(ctx, "/netflow-traffic"); err != nil {
		return err
	}
	if err := should.Exist(ctx, p.d, "#pageHeader", should.WithTimeout(NetflowLoadTimeout)); err != nil {
		return err
	}
	return should.NotExist(ctx, p.d, browser.ByTestID("no-results-found"), should.WithTimeout(NetflowLoadTimeout))
}

// StopAutoRefresh turns periodic refresh off.
func (p *NetflowPage) StopAutoRefresh(ctx context.Context) error {
	if err := p.d.Click(ctx, browser.Sel(browser.ByTestID("refresh-dropdown"))); err != nil {
		return err
	}
	return p.d.Click(ctx, browser.Sel(browser.ByTestID("OFF_KEY")))
}

// WaitForLokiQuery blocks until no query is in flight.
func (p *NetflowPage) WaitForLokiQuery(ctx context.Context) error {
	return should.NotExist(ctx, p.d, ".pf-c-spinner", should.WithTimeout(NetflowLoadTimeout))
}

// ResetClearFilters restores the default filters.
func (p *NetflowPage) ResetClearFilters(ctx context.Context) error {
	return p.d.Click(ctx, browser.Contains("#filters button", "Reset defaults"))
}

// GoToTrafficFlowsTab switches to the flow table.
func (p *NetflowPage) GoToTrafficFlowsTab(ctx context.Context) error {
	if err := p.d.Click(ctx, browser.Sel("#tabs-container li:nth-child(2)")); err != nil {
		return err
	}
	return should.Exist(ctx, p.d, browser.ByTestID("table-composable"))
}

// OpenPanelsModal opens "Manage panels".
func (p *NetflowPage) OpenPanelsModal(ctx context.Context) error {
	if err := p.d.Click(ctx, browser.Sel(browser.ByTestID(OverviewSelectors.ViewOptions))); err != nil {
		return err
	}
	if err := p.d.Click(ctx, browser.Sel(OverviewSelectors.ManagePanels)); err != nil {
		return err
	}
	return should.Exist(ctx, p.d, OverviewSelectors.PanelsModal)
}

// CheckPopupItems asserts a popup lists every item.
func (p *NetflowPage) CheckPopupItems(ctx context.Context, popup string, items []string) error {
	for _, item := range items {
		if err := should.ContainText(ctx, p.d, popup, item); err != nil {
			return err
		}
	}
	return nil
}

// SelectAllPanels selects every panel in the open modal and saves.
func (p *NetflowPage) SelectAllPanels(ctx context.Context) error {
	inModal := OverviewSelectors.PanelsModal + " *"
	if err := p.d.Click(ctx, browser.Contains(inModal, "Select all")); err != nil {
		return err
	}
	return p.d.Click(ctx, browser.Contains(inModal, "Save"))
}

// RestoreDefaultPanels resets the panel selection through the modal.
func (p *NetflowPage) RestoreDefaultPanels(ctx context.Context) error {
	if err := p.d.Click(ctx, browser.Sel(browser.ByTestID(OverviewSelectors.ViewOptions))); err != nil {
		return err
	}
	if err := p.d.Click(ctx, browser.Sel(OverviewSelectors.ManagePanels)); err != nil {
		return err
	}
	if err := p.d.Click(ctx, browser.Sel(browser.ByTestID(OverviewSelectors.ResetDefault))); err != nil {
		return err
	}
	return p.d.Click(ctx, browser.Sel(browser.ByTestID(OverviewSelectors.Save)))
}

// ChangeQueryOption picks a query option such as "Fully dropped".
func (p *NetflowPage) ChangeQueryOption(ctx context.Context, name string) error {
	toggle := browser.Sel(browser.ByTestID("query-options-dropdown"))
	if err := p.d.Click(ctx, toggle); err != nil {
		return err
	}
	if err := p.d.Click(ctx, browser.Contains("#query-options-dropdown label", name)); err != nil {
		return err
	}
	return p.d.Click(ctx, toggle)
}

// AddFilter adds a column filter. group is the data-test id of the filter
// group toggle and may be empty when the filter is in the open group.
func (p *NetflowPage) AddFilter(ctx context.Context, group, filter, value string) error {
	if err := p.d.Click(ctx, browser.Sel(browser.ByTestID("column-filter-toggle"))); err != nil {
		return err
	}
	if err := should.BeVisible(ctx, p.d, ".pf-c-dropdown__menu"); err != nil {
		return err
	}
	if group != "" {
		if err := p.d.Click(ctx, browser.Sel(browser.ByTestID(group))); err != nil {
			return err
		}
	}
	if err := p.d.Click(ctx, browser.Sel(browser.ByTestID(filter))); err != nil {
		return err
	}
	return p.d.Type(ctx, browser.Sel(browser.ByTestID("autocomplete-search")), value+"\n")
}

// CheckFilterChip asserts a chip with value is shown under group name.
func (p *NetflowPage) CheckFilterChip(ctx context.Context, groupName, value string) error {
	if err := should.ContainText(ctx, p.d, "#filters div.custom-chip > p", value); err != nil {
		return err
	}
	return should.ContainText(ctx, p.d, "#filters div.custom-chip-group > p", groupName)
}

// CheckDonutSingleLegend asserts a donut panel shows exactly one legend entry
// containing want.
func (p *NetflowPage) CheckDonutSingleLegend(ctx context.Context, donut, want string) error {
	if err := should.ContainText(ctx, p.d, donut+" #legend-labels-0 > *", want); err != nil {
		return err
	}
	return should.NotExist(ctx, p.d, donut+" #legend-labels-1")
}
