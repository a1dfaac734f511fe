// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package views holds the page objects of the console.
//
// A page object wraps a browser.Driver and exposes named operations for one
// screen. Page objects keep no state between operations: every call
// re-resolves its elements through attribute based selectors.
package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/StringKe/console-e2e/internal/browser"
	"github.com/StringKe/console-e2e/internal/should"
)

// DefaultUpstreamURL is the custom update service EditUpstreamConfig sets.
const DefaultUpstreamURL = "https://openshift-release.apps.ci.l2s4.p1.openshiftapps.com/graph"

// HiddenClusterConfigs are the global configuration resources a managed
// cluster hides from the configuration list.
var HiddenClusterConfigs = []string{
	"APIServer", "Authentication", "DNS", "FeatureGate",
	"Networking", "OAuth", "Proxy", "Scheduler",
}

// ClusterSettingPage is /settings/cluster.
type ClusterSettingPage struct {
	d browser.Driver
}

// NewClusterSettingPage creates the page object.
func NewClusterSettingPage(d browser.Driver) *ClusterSettingPage {
	return &ClusterSettingPage{d: d}
}

const (
	upstreamServerButton = `button[data-test-id="cluster-version-upstream-server-url"]`
	channelUpdateLink    = `button[data-test-id="current-channel-update-link"]`
)

// GoToClusterSettingConfiguration opens the global configuration tab.
func (p *ClusterSettingPage) GoToClusterSettingConfiguration(ctx context.Context) error {
	return p.d.Visit(ctx, "/settings/cluster/globalconfig")
}

// ClickDetailTab opens the Details tab.
func (p *ClusterSettingPage) ClickDetailTab(ctx context.Context) error {
	return p.d.Click(ctx, browser.Sel(browser.ByLegacyTestID("horizontal-link-Details")))
}

// CheckUpstreamURLDisabled asserts the update service button is disabled.
func (p *ClusterSettingPage) CheckUpstreamURLDisabled(ctx context.Context) error {
	return should.HaveAttr(ctx, p.d, upstreamServerButton, "aria-disabled", "true")
}

// CheckAlertMsg asserts an alert title contains msg.
func (p *ClusterSettingPage) CheckAlertMsg(ctx context.Context, msg string) error {
	return should.ContainText(ctx, p.d, "h4.pf-c-alert__title", msg)
}

// CheckChannelNotEditable asserts the channel cannot be changed.
func (p *ClusterSettingPage) CheckChannelNotEditable(ctx context.Context) error {
	return should.NotExist(ctx, p.d, channelUpdateLink)
}

// CheckNoAutoscalerField asserts the details list has no autoscaler entry.
func (p *ClusterSettingPage) CheckNoAutoscalerField(ctx context.Context) error {
	return should.NotContainText(ctx, p.d, "dt", "Cluster autoscaler")
}

// CheckClusterVersionNotEditable opens the ClusterVersion resource and
// asserts neither its metadata nor its YAML can be edited.
func (p *ClusterSettingPage) CheckClusterVersionNotEditable(ctx context.Context) error {
	if err := p.d.Click(ctx, browser.Sel(browser.ByLegacyTestID("version"))); err != nil {
		return err
	}
	if err := p.CheckUpstreamURLDisabled(ctx); err != nil {
		return err
	}
	for _, sel := range []string{
		browser.ByTestID("Labels-details-item__edit-button"),
		browser.ByTestID("edit-annotations"),
	} {
		if err := should.NotExist(ctx, p.d, sel); err != nil {
			return err
		}
	}
	if err := p.d.Click(ctx, browser.Sel(browser.ByLegacyTestID("horizontal-link-public~YAML"))); err != nil {
		return err
	}
	if err := should.Exist(ctx, p.d, ".yaml-editor"); err != nil {
		return err
	}
	return should.NotExist(ctx, p.d, `[id="save-changes"]`)
}

// CheckHiddenConfiguration returns to the configuration list and asserts the
// HiddenClusterConfigs resources are not linked.
func (p *ClusterSettingPage) CheckHiddenConfiguration(ctx context.Context) error {
	if err := p.d.Click(ctx, browser.Sel(browser.ByLegacyTestID("breadcrumb-link-0"))); err != nil {
		return err
	}
	if err := should.Exist(ctx, p.d, ".loading-box__loaded"); err != nil {
		return err
	}
	for _, name := range HiddenClusterConfigs {
		href := fmt.Sprintf(`[href="/k8s/cluster/config.openshift.io~v1~%s/cluster"]`, name)
		if err := should.NotExist(ctx, p.d, href); err != nil {
			return err
		}
	}
	return nil
}

// EditUpstreamConfig points the cluster at a custom update service.
func (p *ClusterSettingPage) EditUpstreamConfig(ctx context.Context, url string) error {
	if url == "" {
		url = DefaultUpstreamURL
	}
	if err := p.d.Click(ctx, browser.Sel(upstreamServerButton)); err != nil {
		return err
	}
	if err := p.d.Click(ctx, browser.Sel(browser.ByTestID("Custom update service.-radio-input"))); err != nil {
		return err
	}
	if err := p.d.Type(ctx, browser.Sel(`[id="cluster-version-custom-upstream-server-url"]`), url); err != nil {
		return err
	}
	return p.d.Click(ctx, browser.Sel(browser.ByTestID("confirm-action")))
}

// ChannelForVersion derives the stable channel of a cluster version, e.g.
// "4.16.3" gives "stable-4.16".
func ChannelForVersion(version string) string {
	parts := strings.Split(strings.TrimSpace(version), ".")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return "stable-" + strings.Join(parts, ".")
}

// ConfigureChannel sets the update channel to the stable channel of the
// current cluster version.
func (p *ClusterSettingPage) ConfigureChannel(ctx context.Context) error {
	versionSel := browser.ByLegacyTestID("cluster-version")
	if err := should.Exist(ctx, p.d, versionSel); err != nil {
		return err
	}
	version, err := firstText(ctx, p.d, versionSel)
	if err != nil {
		return err
	}
	channel := ChannelForVersion(version)

	if err := p.d.Click(ctx, browser.Sel(channelUpdateLink)); err != nil {
		return err
	}
	if err := p.d.Type(ctx, browser.Sel(".pf-c-form-control"), channel); err != nil {
		return err
	}
	return p.d.Click(ctx, browser.Sel(browser.ByTestID("confirm-action")))
}
