// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package session signs in to the console and moves between perspectives.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/StringKe/console-e2e/internal/browser"
	"github.com/StringKe/console-e2e/internal/should"
)

// Selectors of the login page and the console masthead.
var (
	LoginPage         = browser.ByLegacyTestID("login")
	UsernameInput     = "#inputUsername"
	PasswordInput     = "#inputPassword"
	SubmitButton      = "button[type=submit]"
	UserDropdown      = browser.ByTestID("user-dropdown")
	LogoutItem        = browser.ByTestID("log-out")
	PerspectiveToggle = browser.ByLegacyTestID("perspective-switcher-toggle")
	PerspectiveOption = browser.ByLegacyTestID("perspective-switcher-menu-option")
	NavigationRail    = "#page-sidebar"
	GuidedTourModal   = browser.ByTestID("guided-tour-modal")
	GuidedTourSkip    = browser.ByTestID("tour-step-footer-secondary")
)

var managedBrands = map[string]bool{"rosa": true, "dedicated": true}

// DefaultPageLoadTimeout bounds how long Login waits for the console shell.
const DefaultPageLoadTimeout = 2 * time.Minute

// Session drives authentication and navigation context in the browser.
type Session struct {
	d               browser.Driver
	log             logr.Logger
	pageLoadTimeout time.Duration
}

// New creates a Session.
func New(d browser.Driver, log logr.Logger, pageLoadTimeout time.Duration) *Session {
	if pageLoadTimeout <= 0 {
		pageLoadTimeout = DefaultPageLoadTimeout
	}
	return &Session{d: d, log: log.WithName("session"), pageLoadTimeout: pageLoadTimeout}
}

type serverFlags struct {
	AuthDisabled bool   `json:"authDisabled"`
	Branding     string `json:"branding"`
}

const serverFlagsScript = `(() => {
  const f = window.SERVER_FLAGS || {};
  return { authDisabled: !!f.authDisabled, branding: String(f.branding || '') };
})()`

func (s *Session) flags(ctx context.Context) (serverFlags, error) {
	var f serverFlags
	if err := s.d.Eval(ctx, serverFlagsScript, &f); err != nil {
		return f, fmt.Errorf("read SERVER_FLAGS: %w", err)
	}
	return f, nil
}

// Login signs in through the given identity provider and waits for the
// authenticated console shell. It returns immediately when the console runs
// with authentication disabled or the browser is already signed in.
func (s *Session) Login(ctx context.Context, idp, username, password string) error {
	if err := s.d.Visit(ctx, "/"); err != nil {
		return err
	}
	flags, err := s.flags(ctx)
	if err != nil {
		return err
	}
	if flags.AuthDisabled {
		s.log.Info("Skipping login, console is running with auth disabled")
		return nil
	}
	signedIn, err := s.landing(ctx)
	if err != nil {
		return fmt.Errorf("login page: %w", err)
	}
	if signedIn {
		s.log.V(1).Info("Already logged in", "user", username)
		return nil
	}

	if idp != "" {
		body, err := s.d.Elements(ctx, "body")
		if err != nil {
			return err
		}
		if len(body) > 0 && strings.Contains(body[0].Text, idp) {
			if err := s.d.Click(ctx, browser.Contains("a", idp)); err != nil {
				return fmt.Errorf("choose identity provider %s: %w", idp, err)
			}
		}
	}
	if err := s.d.Type(ctx, browser.Sel(UsernameInput), username); err != nil {
		return err
	}
	if err := s.d.Type(ctx, browser.Sel(PasswordInput), password); err != nil {
		return err
	}
	if err := s.d.Click(ctx, browser.Sel(SubmitButton)); err != nil {
		return err
	}
	if err := should.BeVisible(ctx, s.d, UserDropdown, should.WithTimeout(s.pageLoadTimeout)); err != nil {
		return fmt.Errorf("console shell did not appear after login as %s: %w", username, err)
	}
	s.log.Info("Logged in", "idp", idp, "user", username)
	return nil
}

// landing waits for the page behind "/" to settle on either the console shell
// or the login form and reports whether the shell won.
func (s *Session) landing(ctx context.Context) (bool, error) {
	var signedIn bool
	err := should.Eventually(ctx, s.pageLoadTimeout, func(ctx context.Context) error {
		if els, err := s.d.Elements(ctx, UserDropdown); err == nil && anyVisible(els) {
			signedIn = true
			return nil
		}
		els, err := s.d.Elements(ctx, LoginPage)
		if err != nil {
			return err
		}
		if !anyVisible(els) {
			return errors.New("neither the login page nor the user menu is visible")
		}
		return nil
	})
	return signedIn, err
}

func anyVisible(els []browser.Element) bool {
	for _, el := range els {
		if el.Visible {
			return true
		}
	}
	return false
}

// Logout signs out through the user menu and waits for the login page.
func (s *Session) Logout(ctx context.Context) error {
	flags, err := s.flags(ctx)
	if err != nil {
		return err
	}
	if flags.AuthDisabled {
		return nil
	}
	if err := s.d.Click(ctx, browser.Sel(UserDropdown)); err != nil {
		return err
	}
	if err := s.d.Click(ctx, browser.Sel(LogoutItem)); err != nil {
		return err
	}
	if err := should.BeVisible(ctx, s.d, LoginPage, should.WithTimeout(s.pageLoadTimeout)); err != nil {
		return fmt.Errorf("login page did not appear after logout: %w", err)
	}
	s.log.Info("Logged out")
	return nil
}

// SwitchPerspective selects a perspective such as "Administrator" and
// waits for its navigation rail.
func (s *Session) SwitchPerspective(ctx context.Context, name string) error {
	toggle, err := s.d.Elements(ctx, PerspectiveToggle)
	if err != nil {
		return err
	}
	if len(toggle) > 0 && strings.Contains(toggle[0].Text, name) {
		s.log.V(1).Info("Perspective already active", "perspective", name)
	} else {
		if err := s.d.Click(ctx, browser.Sel(PerspectiveToggle)); err != nil {
			return err
		}
		if err := s.d.Click(ctx, browser.Contains(PerspectiveOption, name)); err != nil {
			return fmt.Errorf("choose perspective %s: %w", name, err)
		}
	}
	if err := should.ContainText(ctx, s.d, PerspectiveToggle, name); err != nil {
		return err
	}
	return should.BeVisible(ctx, s.d, NavigationRail)
}

// CloseGuidedTour skips the guided tour when its modal is shown.
func (s *Session) CloseGuidedTour(ctx context.Context) error {
	modal, err := s.d.Elements(ctx, GuidedTourModal)
	if err != nil {
		return err
	}
	if len(modal) == 0 {
		return nil
	}
	if err := s.d.Click(ctx, browser.Contains(GuidedTourSkip, "Skip tour")); err != nil {
		return err
	}
	return should.NotExist(ctx, s.d, GuidedTourModal)
}

// IsManagedCluster reports whether the console is branded for a managed
// offering (ROSA or OSD).
func (s *Session) IsManagedCluster(ctx context.Context) (bool, error) {
	flags, err := s.flags(ctx)
	if err != nil {
		return false, err
	}
	return managedBrands[flags.Branding], nil
}
