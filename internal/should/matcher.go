// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package should

import (
	"fmt"
	"strings"

	"github.com/onsi/gomega/gcustom"
	"github.com/onsi/gomega/types"

	"github.com/StringKe/console-e2e/internal/browser"
)

// PseudoLocalized matches a string, a browser.Element or a slice of either
// whose text passes IsPseudoLocalized. Slices match when every non-empty
// entry does and at least one entry has text.
func PseudoLocalized() types.GomegaMatcher {
	return gcustom.MakeMatcher(func(actual any) (bool, error) {
		var texts []string
		switch v := actual.(type) {
		case string:
			return IsPseudoLocalized(v), nil
		case browser.Element:
			return IsPseudoLocalized(v.Text), nil
		case []string:
			texts = v
		case []browser.Element:
			for _, el := range v {
				texts = append(texts, el.Text)
			}
		default:
			return false, fmt.Errorf("PseudoLocalized expects a string or browser.Element (or a slice), got %T", actual)
		}
		checked := 0
		for _, t := range texts {
			if strings.TrimSpace(t) == "" {
				continue
			}
			checked++
			if !IsPseudoLocalized(t) {
				return false, nil
			}
		}
		return checked > 0, nil
	}).WithTemplate("Expected:\n{{.FormattedActual}}\n{{.To}} be pseudo-localized")
}
