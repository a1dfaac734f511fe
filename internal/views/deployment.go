// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/StringKe/console-e2e/internal/browser"
	"github.com/StringKe/console-e2e/internal/oc"
	"github.com/StringKe/console-e2e/internal/should"
)

// DeploymentConfigDeprecation is the info alert shown on DeploymentConfig
// pages.
const DeploymentConfigDeprecation = "DeploymentConfig is being deprecated with OpenShift 4.14"

// Deployment covers deployment pages and their cluster-side state.
type Deployment struct {
	d   browser.Driver
	cli *oc.CLI
}

// NewDeployment creates the page object.
func NewDeployment(d browser.Driver, cli *oc.CLI) *Deployment {
	return &Deployment{d: d, cli: cli}
}

const infoAlert = `[aria-label="Info Alert"]`

// CheckAlert asserts the deprecation alert and its link to Deployments.
func (p *Deployment) CheckAlert(ctx context.Context) error {
	if err := should.ContainText(ctx, p.d, infoAlert+" .pf-c-alert__title", DeploymentConfigDeprecation); err != nil {
		return err
	}
	link := infoAlert + " .pf-c-alert__description a"
	if err := should.ContainText(ctx, p.d, link, "Learn more about Deployments"); err != nil {
		return err
	}
	return should.HaveAttrContaining(ctx, p.d, link, "href", "/deployments")
}

// CheckDeploymentFilesystem asserts readOnlyRootFilesystem of a container's
// security context.
func (p *Deployment) CheckDeploymentFilesystem(ctx context.Context, name, namespace string, containerIndex int, readOnly bool) error {
	expr := fmt.Sprintf("{.spec.template.spec.containers[%d].securityContext}", containerIndex)
	res, err := p.cli.RunWith(ctx, []string{"get", "deployment", name, "-n", namespace, "-o", "jsonpath=" + expr}, oc.AllowFailure())
	if err != nil {
		return err
	}
	want := fmt.Sprintf(`"readOnlyRootFilesystem":%t`, readOnly)
	if !strings.Contains(res.Stdout, want) {
		return fmt.Errorf("deployment %s/%s container %d: security context %q does not contain %s",
			namespace, name, containerIndex, strings.TrimSpace(res.Stdout), want)
	}
	return nil
}

// CheckPodStatus asserts the pods selected by label report status.
func (p *Deployment) CheckPodStatus(ctx context.Context, namespace, label, status string) error {
	res, err := p.cli.RunWith(ctx, []string{"get", "pods", "-n", namespace, "-l", label}, oc.AllowFailure())
	if err != nil {
		return err
	}
	if !strings.Contains(res.Stdout, status) {
		return fmt.Errorf("pods %s in %s are not %s:\n%s", label, namespace, status, res.Stdout)
	}
	return nil
}

// CheckDetailItem asserts the details list entry key shows value.
func (p *Deployment) CheckDetailItem(ctx context.Context, key, value string) error {
	script := detailItemScript(key)
	return should.Eventually(ctx, p.d.CommandTimeout(), func(ctx context.Context) error {
		var got *string
		if err := p.d.Eval(ctx, script, &got); err != nil {
			return err
		}
		if got == nil {
			return fmt.Errorf("no details item %q", key)
		}
		if !strings.Contains(*got, value) {
			return fmt.Errorf("details item %q is %q, want %q", key, *got, value)
		}
		return nil
	})
}

// detailItemScript returns the text of the <dd> following the <dt> that
// contains key, or null.
func detailItemScript(key string) string {
	return fmt.Sprintf(`(() => {
  const key = %s;
  const dt = Array.from(document.querySelectorAll('dt')).find((el) => (el.textContent || '').includes(key));
  if (!dt || !dt.nextElementSibling) return null;
  return dt.nextElementSibling.innerText || dt.nextElementSibling.textContent || '';
})()`, browser.JSString(key))
}

// firstText returns the text of the first element matching selector.
func firstText(ctx context.Context, d browser.Driver, selector string) (string, error) {
	els, err := d.Elements(ctx, selector)
	if err != nil {
		return "", err
	}
	if len(els) == 0 {
		return "", fmt.Errorf("%w: %s", browser.ErrElementNotFound, selector)
	}
	return els[0].Text, nil
}
