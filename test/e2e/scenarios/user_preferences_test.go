// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

//go:build e2e

package scenarios

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/StringKe/console-e2e/internal/should"
	"github.com/StringKe/console-e2e/internal/toggle"
	"github.com/StringKe/console-e2e/internal/views"
)

var _ = Describe("User preferences", Ordered, Serial, func() {
	var (
		prefs *views.UserPreferences
		theme *views.ConsoleTheme
	)

	BeforeAll(func(ctx SpecContext) {
		loginAsAdmin(ctx)
		DeferCleanup(func(ctx SpecContext) {
			Expect(f.Session.Logout(ctx)).To(Succeed())
		})
		prefs = views.NewUserPreferences(f.Browser, f.Log)
		theme = views.NewConsoleTheme(f.Browser)
	})

	It("hides and shows user workload notifications", labelE2E, labelAdmin, func(ctx SpecContext) {
		Expect(prefs.GoToNotificationsTab(ctx)).To(Succeed())
		DeferCleanup(func(ctx SpecContext) {
			Expect(prefs.ToggleNotifications(ctx, toggle.ActionEnable)).To(Succeed())
		})

		By("hiding notifications twice")
		for range 2 {
			Expect(prefs.ToggleNotifications(ctx, toggle.ActionHide)).To(Succeed())
			Expect(should.HaveAttr(ctx, f.Browser, views.HideUserWorkloadNotificationsInput,
				"data-checked-state", "true")).To(Succeed())
		}

		By("enabling notifications twice")
		for range 2 {
			Expect(prefs.ToggleNotifications(ctx, toggle.ActionEnable)).To(Succeed())
			Expect(should.HaveAttr(ctx, f.Browser, views.HideUserWorkloadNotificationsInput,
				"data-checked-state", "false")).To(Succeed())
		}
	})

	It("keeps exact match search off by default", labelE2E, labelAdmin, func(ctx SpecContext) {
		Expect(prefs.NavToGeneralUserPreferences(ctx)).To(Succeed())
		Expect(prefs.CheckExactMatchDisabledByDefault(ctx)).To(Succeed())
		DeferCleanup(func(ctx SpecContext) {
			Expect(prefs.ToggleExactMatch(ctx, toggle.ActionDisable)).To(Succeed())
		})

		Expect(prefs.ToggleExactMatch(ctx, toggle.ActionEnable)).To(Succeed())
		Expect(prefs.ToggleExactMatch(ctx, toggle.ActionEnable)).To(Succeed())
		Expect(should.HaveAttr(ctx, f.Browser, views.ExactSearchInput, "data-checked-state", "true")).To(Succeed())

		Expect(prefs.ToggleExactMatch(ctx, toggle.ActionDisable)).To(Succeed())
		Expect(prefs.CheckExactMatchDisabledByDefault(ctx)).To(Succeed())
	})

	It("switches the console theme", labelE2E, labelAdmin, func(ctx SpecContext) {
		Expect(prefs.NavToGeneralUserPreferences(ctx)).To(Succeed())
		DeferCleanup(func(ctx SpecContext) {
			Expect(theme.SetSystemDefaultTheme(ctx)).To(Succeed())
		})

		Expect(theme.SetDarkTheme(ctx)).To(Succeed())
		Expect(should.HaveAttrContaining(ctx, f.Browser, "html", "class", "pf-theme-dark")).To(Succeed())

		Expect(theme.SetLightTheme(ctx)).To(Succeed())
		Expect(should.ContainText(ctx, f.Browser, views.ThemeToggle, "Light")).To(Succeed())
	})
})
