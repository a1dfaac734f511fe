// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package should

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/StringKe/console-e2e/internal/browser"
)

// Selectors used by the console specific assertions.
const (
	// PanelCardSelector matches every rendered dashboard panel.
	PanelCardSelector = "#overview-flex .overview-card"
	// ListRowSelector matches the rows of a resource list.
	ListRowSelector = `[data-test-rows="resource-row"]`
	// ListLoaderSelector matches the loading indicators of a resource list.
	ListLoaderSelector = `.co-m-loader, .loading-box:not(.loading-box__loaded), [data-test="loading-indicator"]`
)

var bracketed = regexp.MustCompile(`\[([^\[\]]*)\]`)

// IsPseudoLocalized reports whether text went through the console's
// pseudo-localization transform: it holds a bracketed segment with at least
// one accented (non-ASCII) letter, and no letter appears outside the
// brackets. Digits, punctuation and symbols outside brackets are tolerated
// since they come from data or layout. "[Ðḗŧȧīŀş]" is accepted; "Details"
// and "[Ðḗŧȧīŀş] Details" are rejected.
func IsPseudoLocalized(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, r := range bracketed.ReplaceAllString(text, " ") {
		if unicode.IsLetter(r) {
			return false
		}
	}
	for _, m := range bracketed.FindAllStringSubmatch(text, -1) {
		for _, r := range m[1] {
			if r > unicode.MaxASCII && unicode.IsLetter(r) {
				return true
			}
		}
	}
	return false
}

// BePseudoLocalized asserts every match of selector with text is
// pseudo-localized. Elements without text (icon cells, spacers) are skipped
// but at least one element must carry text.
func BePseudoLocalized(ctx context.Context, d browser.Driver, selector string, opts ...Option) error {
	return assert(ctx, d, selector, "be pseudo-localized", func(ctx context.Context) error {
		els, err := d.Elements(ctx, selector)
		if err != nil {
			return err
		}
		checked := 0
		for i, el := range els {
			if strings.TrimSpace(el.Text) == "" {
				continue
			}
			checked++
			if !IsPseudoLocalized(el.Text) {
				return fmt.Errorf("element %d has plain text %q", i, truncate(el.Text))
			}
		}
		if checked == 0 {
			return errors.New("no matching element with text")
		}
		return nil
	}, opts)
}

// TestI18n asserts every selector and every data-test id renders
// pseudo-localized text.
func TestI18n(ctx context.Context, d browser.Driver, selectors, testIDs []string, opts ...Option) error {
	for _, sel := range selectors {
		if err := BePseudoLocalized(ctx, d, sel, opts...); err != nil {
			return err
		}
	}
	for _, id := range testIDs {
		if err := BePseudoLocalized(ctx, d, browser.ByTestID(id), opts...); err != nil {
			return err
		}
	}
	return nil
}

// HavePanels asserts every panel selector matches an element.
func HavePanels(ctx context.Context, d browser.Driver, panels []string, opts ...Option) error {
	for _, p := range panels {
		if err := Exist(ctx, d, p, opts...); err != nil {
			return err
		}
	}
	return nil
}

// HavePanelCount asserts exactly n dashboard panels are rendered.
func HavePanelCount(ctx context.Context, d browser.Driver, n int, opts ...Option) error {
	return assert(ctx, d, PanelCardSelector, fmt.Sprintf("have %d panels", n), func(ctx context.Context) error {
		els, err := d.Elements(ctx, PanelCardSelector)
		if err != nil {
			return err
		}
		if len(els) != n {
			return fmt.Errorf("found %d panels", len(els))
		}
		return nil
	}, opts)
}

// ListLoaded reports whether a list finished loading given the number of
// loading indicators in the DOM and rendered rows. It never holds while a loader
// is present.
func ListLoaded(loaders, rows int) bool {
	return loaders == 0 && rows > 0
}

// BeListLoaded blocks until the list's loading indicator is gone and rows are
// rendered.
func BeListLoaded(ctx context.Context, d browser.Driver, opts ...Option) error {
	return assert(ctx, d, ListRowSelector, "be loaded", func(ctx context.Context) error {
		loaders, err := d.Elements(ctx, ListLoaderSelector)
		if err != nil {
			return err
		}
		rows, err := d.Elements(ctx, ListRowSelector)
		if err != nil {
			return err
		}
		if !ListLoaded(len(loaders), len(rows)) {
			return fmt.Errorf("%d loaders, %d rows", len(loaders), len(rows))
		}
		return nil
	}, opts)
}
