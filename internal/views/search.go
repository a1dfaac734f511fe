// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package views

import (
	"context"
	"fmt"

	"github.com/StringKe/console-e2e/internal/browser"
	"github.com/StringKe/console-e2e/internal/should"
)

// SearchPage is /search.
type SearchPage struct {
	d browser.Driver
}

// NewSearchPage creates the page object.
func NewSearchPage(d browser.Driver) *SearchPage {
	return &SearchPage{d: d}
}

// NavToSearchPage opens search across all namespaces.
func (p *SearchPage) NavToSearchPage(ctx context.Context) error {
	return p.d.Visit(ctx, "/search/all-namespaces")
}

// ChooseResourceType selects the first resource kind matching resourceType.
func (p *SearchPage) ChooseResourceType(ctx context.Context, resourceType string) error {
	if err := p.d.Click(ctx, browser.Sel(`button[aria-label="Options menu"]`)); err != nil {
		return err
	}
	if err := p.d.Type(ctx, browser.Sel(`input[type="search"]`), resourceType); err != nil {
		return err
	}
	return p.d.Click(ctx, browser.Sel(`input[type="checkbox"]`))
}

// CheckNoMachineResources asserts machine kinds are not offered.
func (p *SearchPage) CheckNoMachineResources(ctx context.Context) error {
	if err := p.NavToSearchPage(ctx); err != nil {
		return err
	}
	if err := p.d.Click(ctx, browser.Sel("button.pf-c-select__toggle")); err != nil {
		return err
	}
	if err := p.d.Type(ctx, browser.Sel(`[placeholder="Select Resource"]`), "machine"); err != nil {
		return err
	}
	return should.ContainText(ctx, p.d, "body", "No results found")
}

// ClearAllFilters removes every search filter.
func (p *SearchPage) ClearAllFilters(ctx context.Context) error {
	return p.d.Click(ctx, browser.ByButtonText("Clear all filters"))
}

// SearchMethodValues filters by method ("Name", "Label") with value.
func (p *SearchPage) SearchMethodValues(ctx context.Context, method, value string) error {
	if err := p.d.Click(ctx, browser.Sel(`button[id="toggle-id"]`)); err != nil {
		return err
	}
	if err := p.d.Click(ctx, browser.Sel(fmt.Sprintf(`button[name=%q]`, method))); err != nil {
		return err
	}
	return p.d.Type(ctx, browser.Sel(`input[id="search-filter-input"]`), value)
}

// SearchBy types into the list filter.
func (p *SearchPage) SearchBy(ctx context.Context, text string) error {
	return p.d.Type(ctx, browser.Sel(`input[data-test-id="item-filter"]`), text)
}
