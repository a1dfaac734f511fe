// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package views

import (
	"context"
	"fmt"
	"net/url"

	"github.com/StringKe/console-e2e/internal/browser"
	"github.com/StringKe/console-e2e/internal/should"
)

const pageContent = "#content"

// Pages navigates to console routes that have no dedicated page object.
type Pages struct {
	d browser.Driver
}

// NewPages creates the navigator.
func NewPages(d browser.Driver) *Pages {
	return &Pages{d: d}
}

func (p *Pages) visit(ctx context.Context, path string) error {
	if err := p.d.Visit(ctx, path); err != nil {
		return err
	}
	return should.Exist(ctx, p.d, pageContent)
}

// GotoClusterDetailsPage opens cluster settings details.
func (p *Pages) GotoClusterDetailsPage(ctx context.Context) error {
	if err := p.visit(ctx, "/settings/cluster"); err != nil {
		return err
	}
	return should.Exist(ctx, p.d, ".co-cluster-settings")
}

// GotoProjectCreationPage opens the new project form.
func (p *Pages) GotoProjectCreationPage(ctx context.Context) error {
	return p.visit(ctx, "/k8s/cluster/project.openshift.io~v1~Project/~new/form")
}

// GotoDeploymentConfigList opens the DeploymentConfig list of namespace.
func (p *Pages) GotoDeploymentConfigList(ctx context.Context, namespace string) error {
	return p.visit(ctx, fmt.Sprintf("/k8s/ns/%s/deploymentconfigs", url.PathEscape(namespace)))
}

// GotoOneNetworkPolicyDetails opens a NetworkPolicy.
func (p *Pages) GotoOneNetworkPolicyDetails(ctx context.Context, namespace, name string) error {
	return p.visit(ctx, fmt.Sprintf("/k8s/ns/%s/networkpolicies/%s", url.PathEscape(namespace), url.PathEscape(name)))
}

// GotoOneProjectAccessTab opens the access tab of a project.
func (p *Pages) GotoOneProjectAccessTab(ctx context.Context, project string) error {
	return p.visit(ctx, fmt.Sprintf("/k8s/cluster/projects/%s/access", url.PathEscape(project)))
}

// GotoNamespaces opens the namespace list. query is appended verbatim, e.g.
// "pseudolocalization=true&lng=en".
func (p *Pages) GotoNamespaces(ctx context.Context, query string) error {
	return p.d.Visit(ctx, withQuery("/k8s/cluster/namespaces", query))
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}

// InstalledOperatorPage lists the ClusterServiceVersions of a namespace.
type InstalledOperatorPage struct {
	d browser.Driver
}

// NewInstalledOperatorPage creates the page object.
func NewInstalledOperatorPage(d browser.Driver) *InstalledOperatorPage {
	return &InstalledOperatorPage{d: d}
}

// GoToWithNS opens installed operators in namespace.
func (p *InstalledOperatorPage) GoToWithNS(ctx context.Context, namespace string) error {
	if err := p.d.Visit(ctx, fmt.Sprintf("/k8s/ns/%s/operators.coreos.com~v1alpha1~ClusterServiceVersion", url.PathEscape(namespace))); err != nil {
		return err
	}
	return should.Exist(ctx, p.d, pageContent)
}

// OperatorShouldSucceed waits until the row of the operator with display
// name shows the Succeeded status.
func (p *InstalledOperatorPage) OperatorShouldSucceed(ctx context.Context, displayName string, opts ...should.Option) error {
	row := fmt.Sprintf(`%s:has([data-test-operator-row=%q])`, ListPageSelector.Rows, displayName)
	return should.ContainText(ctx, p.d, row, "Succeeded", opts...)
}
