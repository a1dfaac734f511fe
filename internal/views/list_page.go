// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package views

import (
	"context"
	"fmt"

	"github.com/StringKe/console-e2e/internal/browser"
	"github.com/StringKe/console-e2e/internal/should"
)

// ListPageSelector holds selectors shared by resource list pages.
var ListPageSelector = struct {
	TableColumnHeaders string
	Rows               string
	NameFilter         string
	ItemFilter         string
	CreateButton       string
	KebabButton        string
}{
	TableColumnHeaders: "thead th",
	Rows:               should.ListRowSelector,
	NameFilter:         browser.ByTestID("name-filter-input"),
	ItemFilter:         browser.ByLegacyTestID("item-filter"),
	CreateButton:       browser.ByTestID("item-create"),
	KebabButton:        browser.ByLegacyTestID("kebab-button"),
}

// DetailsPageSelector holds selectors shared by resource details pages.
var DetailsPageSelector = struct {
	Title             string
	HorizontalNavTabs string
	ItemLabels        string
	SectionHeadings   string
	ActionsMenu       string
	MenuItems         string
}{
	Title:             browser.ByLegacyTestID("resource-title"),
	HorizontalNavTabs: ".co-horizontal-nav__menu-item",
	ItemLabels:        "dt",
	SectionHeadings:   "[data-test-section-heading]",
	ActionsMenu:       browser.ByLegacyTestID("actions-menu-button"),
	MenuItems:         ".pf-c-dropdown__menu-item",
}

// ListPage is any resource list page.
type ListPage struct {
	d browser.Driver
}

// NewListPage creates the page object.
func NewListPage(d browser.Driver) *ListPage {
	return &ListPage{d: d}
}

// TitleShouldHaveText asserts the page title.
func (p *ListPage) TitleShouldHaveText(ctx context.Context, title string) error {
	return should.ContainText(ctx, p.d, DetailsPageSelector.Title, title)
}

// ClickCreateYAMLButton opens the create form.
func (p *ListPage) ClickCreateYAMLButton(ctx context.Context) error {
	return p.d.Click(ctx, browser.Sel(ListPageSelector.CreateButton).Forced())
}

// FilterByName types name into the name filter.
func (p *ListPage) FilterByName(ctx context.Context, name string) error {
	return p.d.Type(ctx, browser.Sel(ListPageSelector.NameFilter), name)
}

// FilterByItem types text into the legacy item filter.
func (p *ListPage) FilterByItem(ctx context.Context, text string) error {
	return p.d.Type(ctx, browser.Sel(ListPageSelector.ItemFilter), text)
}

// RowsShouldBeLoaded blocks until the loading indicator is replaced by rows.
func (p *ListPage) RowsShouldBeLoaded(ctx context.Context, opts ...should.Option) error {
	return should.BeListLoaded(ctx, p.d, opts...)
}

// RowsCountShouldBe asserts the number of rows.
func (p *ListPage) RowsCountShouldBe(ctx context.Context, n int) error {
	return should.Eventually(ctx, p.d.CommandTimeout(), func(ctx context.Context) error {
		rows, err := p.d.Elements(ctx, ListPageSelector.Rows)
		if err != nil {
			return err
		}
		if len(rows) != n {
			return fmt.Errorf("found %d rows, want %d", len(rows), n)
		}
		return nil
	})
}

// ClickRowByName opens the resource named name.
func (p *ListPage) ClickRowByName(ctx context.Context, name string) error {
	return p.d.Click(ctx, browser.Sel(fmt.Sprintf(`a[data-test-id=%q]`, name)).Forced())
}

// RowShouldExist asserts a row for name is visible.
func (p *ListPage) RowShouldExist(ctx context.Context, name string) error {
	return should.BeVisible(ctx, p.d, browser.ByLegacyTestID(name))
}

// ClickKebabAction runs a row action from the kebab menu of the row for
// name.
func (p *ListPage) ClickKebabAction(ctx context.Context, name, action string) error {
	kebab := fmt.Sprintf(`tr:has(%s) %s`, browser.ByLegacyTestID(name), ListPageSelector.KebabButton)
	if err := p.d.Click(ctx, browser.Sel(kebab)); err != nil {
		return err
	}
	return p.d.Click(ctx, browser.Sel(browser.ByTestActionID(action)))
}

// OpenFirstKebab opens the kebab menu of the first row.
func (p *ListPage) OpenFirstKebab(ctx context.Context) error {
	return p.d.Click(ctx, browser.Sel(ListPageSelector.KebabButton))
}

// ClickFirstResource opens the first resource of the list.
func (p *ListPage) ClickFirstResource(ctx context.Context) error {
	return p.d.Click(ctx, browser.Sel("a.co-resource-item__resource-name"))
}
