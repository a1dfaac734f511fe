// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package views

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/StringKe/console-e2e/internal/browser"
	"github.com/StringKe/console-e2e/internal/should"
	"github.com/StringKe/console-e2e/internal/toggle"
)

// Selectors of the user preference page.
const (
	HideUserWorkloadNotificationsInput = `input[id="console.hideUserWorkloadNotifications"]`
	HideUserWorkloadNotificationsLabel = "Hide user workload notifications"
	ExactSearchInput                   = `input[id="console.enableExactSearch"]`
	ThemeToggle                        = `button[id="console.theme"]`
	checkedStateAttr                   = "data-checked-state"
)

// PreferencesLoadTimeout bounds how long preference tabs take to render
// after navigation.
const PreferencesLoadTimeout = 20 * time.Second

// UserPreferences is /user-preferences.
type UserPreferences struct {
	d   browser.Driver
	log logr.Logger
}

// NewUserPreferences creates the page object.
func NewUserPreferences(d browser.Driver, log logr.Logger) *UserPreferences {
	return &UserPreferences{d: d, log: log.WithName("user-preferences")}
}

// GoToNotificationsTab opens the notifications tab and waits until it is
// selected.
func (p *UserPreferences) GoToNotificationsTab(ctx context.Context) error {
	if err := p.d.Visit(ctx, "/user-preferences/notifications"); err != nil {
		return err
	}
	return should.HaveAttr(ctx, p.d, browser.ByTestID("tab notifications"), "aria-selected", "true",
		should.WithTimeout(PreferencesLoadTimeout))
}

// NavToGeneralUserPreferences opens the preferences through the user menu.
func (p *UserPreferences) NavToGeneralUserPreferences(ctx context.Context) error {
	if err := p.d.Click(ctx, browser.Sel(`button[aria-label="User menu"]`).Forced()); err != nil {
		return err
	}
	if err := p.d.Click(ctx, browser.Contains("a", "User Preferences")); err != nil {
		return err
	}
	return should.BeVisible(ctx, p.d, ".co-user-preference-page-content__tab-content",
		should.WithTimeout(PreferencesLoadTimeout))
}

// ToggleNotifications sets "Hide user workload notifications" for
// action "hide" (checked) or "enable" (unchecked).
func (p *UserPreferences) ToggleNotifications(ctx context.Context, action toggle.Action) error {
	target, err := toggle.TargetFor(action, toggle.ActionHide, toggle.ActionEnable)
	if err != nil {
		return err
	}
	return p.set(ctx, HideUserWorkloadNotificationsInput, browser.Contains("*", HideUserWorkloadNotificationsLabel), target)
}

// CheckExactMatchDisabledByDefault asserts exact search is off.
func (p *UserPreferences) CheckExactMatchDisabledByDefault(ctx context.Context) error {
	return should.HaveAttr(ctx, p.d, ExactSearchInput, checkedStateAttr, "false")
}

// ToggleExactMatch sets exact search for action "enable" or "disable".
func (p *UserPreferences) ToggleExactMatch(ctx context.Context, action toggle.Action) error {
	target, err := toggle.TargetFor(action, toggle.ActionEnable, toggle.ActionDisable)
	if err != nil {
		return err
	}
	return p.set(ctx, ExactSearchInput, browser.Sel(ExactSearchInput), target)
}

// set reads the checked state of input and clicks control as many times as
// toggle.DesiredClickCount asks, then waits for the state to settle.
func (p *UserPreferences) set(ctx context.Context, input string, control browser.Target, target toggle.State) error {
	if err := should.Exist(ctx, p.d, input); err != nil {
		return err
	}
	els, err := p.d.Elements(ctx, input)
	if err != nil {
		return err
	}
	if len(els) == 0 {
		return fmt.Errorf("%w: %s", browser.ErrElementNotFound, input)
	}
	attr, _ := els[0].Attr(checkedStateAttr)
	current := toggle.ParseState(attr)

	clicks, err := toggle.DesiredClickCount(current, target)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	p.log.V(1).Info("Setting preference", "input", input, "current", current.String(), "target", target.String(), "clicks", clicks)
	for range clicks {
		if err := p.d.Click(ctx, control); err != nil {
			return err
		}
	}
	return should.HaveAttr(ctx, p.d, input, checkedStateAttr, stateAttr(target))
}

func stateAttr(s toggle.State) string {
	if s == toggle.On {
		return "true"
	}
	return "false"
}

// ConsoleTheme is the theme selector on the general preferences tab.
type ConsoleTheme struct {
	d browser.Driver
}

// NewConsoleTheme creates the page object.
func NewConsoleTheme(d browser.Driver) *ConsoleTheme {
	return &ConsoleTheme{d: d}
}

func (p *ConsoleTheme) choose(ctx context.Context, label string) error {
	if err := p.d.Click(ctx, browser.Sel(ThemeToggle)); err != nil {
		return err
	}
	return p.d.Click(ctx, browser.ByButtonText(label))
}

// SetDarkTheme selects the dark theme.
func (p *ConsoleTheme) SetDarkTheme(ctx context.Context) error {
	return p.choose(ctx, "Dark")
}

// SetLightTheme selects the light theme.
func (p *ConsoleTheme) SetLightTheme(ctx context.Context) error {
	return p.choose(ctx, "Light")
}

// SetSystemDefaultTheme follows the operating system theme.
func (p *ConsoleTheme) SetSystemDefaultTheme(ctx context.Context) error {
	return p.choose(ctx, "System default")
}
