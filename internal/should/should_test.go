// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package should_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/StringKe/console-e2e/internal/browser"
	"github.com/StringKe/console-e2e/internal/browser/mock"
	"github.com/StringKe/console-e2e/internal/should"
)

var fast = should.WithInterval(time.Millisecond)

func newDriver(t *testing.T) *mock.MockDriver {
	ctrl := gomock.NewController(t)
	d := mock.NewMockDriver(ctrl)
	d.EXPECT().CommandTimeout().Return(50 * time.Millisecond).AnyTimes()
	return d
}

func texts(ss ...string) []browser.Element {
	out := make([]browser.Element, 0, len(ss))
	for _, s := range ss {
		out = append(out, browser.Element{Text: s, Visible: true})
	}
	return out
}

func TestIsPseudoLocalized(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Details", false},
		{"", false},
		{"   ", false},
		{"[Details]", false},
		{"[Ðḗŧȧīŀş]", true},
		{"  [Ƈŀŭşŧḗř şḗŧŧīƞɠş]  ", true},
		{"Ðḗŧȧīŀş", false},
		{"[Ŀȧƀḗŀş] [Ȧƞƞǿŧȧŧīǿƞş]", true},
		{"[123] [Ŧȧɠ]", true},
		{"[–]", false},
		{"[Ðḗŧȧīŀş] Details", false},
		{"Cluster [Şḗŧŧīƞɠş]", false},
		{"[Ŀȧƀḗŀş]: [Ȧƞƞǿŧȧŧīǿƞş]", true},
		{"3 / [Ƥǿḓş]", true},
		{"[Ƞȧḿḗ] Ðḗŧȧīŀş", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, should.IsPseudoLocalized(tt.text))
		})
	}
}

func TestListLoaded(t *testing.T) {
	assert.False(t, should.ListLoaded(1, 5), "never loaded while a loader is present")
	assert.False(t, should.ListLoaded(1, 0))
	assert.False(t, should.ListLoaded(0, 0))
	assert.True(t, should.ListLoaded(0, 1))
}

func TestBeListLoaded_WaitsForLoader(t *testing.T) {
	d := newDriver(t)
	gomock.InOrder(
		d.EXPECT().Elements(gomock.Any(), should.ListLoaderSelector).Return(texts(""), nil).Times(2),
		d.EXPECT().Elements(gomock.Any(), should.ListLoaderSelector).Return(nil, nil).AnyTimes(),
	)
	d.EXPECT().Elements(gomock.Any(), should.ListRowSelector).Return(texts("a", "b"), nil).AnyTimes()

	require.NoError(t, should.BeListLoaded(context.Background(), d, fast, should.WithTimeout(time.Second)))
}

func TestBeListLoaded_FailsWhileLoaderPresent(t *testing.T) {
	d := newDriver(t)
	d.EXPECT().Elements(gomock.Any(), should.ListLoaderSelector).Return(texts(""), nil).AnyTimes()
	d.EXPECT().Elements(gomock.Any(), should.ListRowSelector).Return(texts("row"), nil).AnyTimes()

	err := should.BeListLoaded(context.Background(), d, fast)
	require.Error(t, err)
	assert.ErrorIs(t, err, should.ErrConditionNotMet)

	var ae *should.AssertionError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, should.ListRowSelector, ae.Selector)
	assert.Contains(t, err.Error(), "1 loaders, 1 rows")
}

func TestBePseudoLocalized(t *testing.T) {
	d := newDriver(t)
	d.EXPECT().Elements(gomock.Any(), "th").Return(texts("", "[Ƞȧḿḗ]", "[Şŧȧŧŭş]"), nil).AnyTimes()
	d.EXPECT().Elements(gomock.Any(), ".plain").Return(texts("[Ƞȧḿḗ]", "Details"), nil).AnyTimes()
	d.EXPECT().Elements(gomock.Any(), ".empty").Return(texts(" "), nil).AnyTimes()

	ctx := context.Background()
	assert.NoError(t, should.BePseudoLocalized(ctx, d, "th", fast))

	err := should.BePseudoLocalized(ctx, d, ".plain", fast)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `plain text "Details"`)

	assert.Error(t, should.BePseudoLocalized(ctx, d, ".empty", fast))
}

func TestTestI18n(t *testing.T) {
	d := newDriver(t)
	d.EXPECT().Elements(gomock.Any(), "thead th").Return(texts("[Ƞȧḿḗ]"), nil).AnyTimes()
	d.EXPECT().Elements(gomock.Any(), `[data-test="item-create"]`).Return(texts("[Ƈřḗȧŧḗ]"), nil).AnyTimes()

	assert.NoError(t, should.TestI18n(context.Background(), d, []string{"thead th"}, []string{"item-create"}, fast))
}

func TestPanels(t *testing.T) {
	d := newDriver(t)
	d.EXPECT().Elements(gomock.Any(), should.PanelCardSelector).Return(make([]browser.Element, 7), nil).AnyTimes()
	d.EXPECT().Elements(gomock.Any(), "#top_dropped_state_donut").Return(texts("x"), nil).AnyTimes()
	d.EXPECT().Elements(gomock.Any(), "#missing").Return(nil, nil).AnyTimes()

	ctx := context.Background()
	assert.NoError(t, should.HavePanelCount(ctx, d, 7, fast))

	err := should.HavePanelCount(ctx, d, 11, fast)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 7 panels")

	assert.NoError(t, should.HavePanels(ctx, d, []string{"#top_dropped_state_donut"}, fast))
	assert.Error(t, should.HavePanels(ctx, d, []string{"#top_dropped_state_donut", "#missing"}, fast))
}

func TestDOMPredicates(t *testing.T) {
	d := newDriver(t)
	d.EXPECT().Elements(gomock.Any(), "a").Return(texts("Home", "Projects"), nil).AnyTimes()
	d.EXPECT().Elements(gomock.Any(), "#hidden").Return([]browser.Element{{Visible: false}}, nil).AnyTimes()
	d.EXPECT().Elements(gomock.Any(), "#toggle").Return([]browser.Element{
		{Attrs: map[string]string{"data-checked-state": "false"}},
	}, nil).AnyTimes()
	d.EXPECT().Elements(gomock.Any(), "#none").Return(nil, nil).AnyTimes()

	ctx := context.Background()
	assert.NoError(t, should.Exist(ctx, d, "a", fast))
	assert.NoError(t, should.NotExist(ctx, d, "#none", fast))
	assert.Error(t, should.NotExist(ctx, d, "a", fast))
	assert.NoError(t, should.BeVisible(ctx, d, "a", fast))
	assert.Error(t, should.BeVisible(ctx, d, "#hidden", fast))
	assert.NoError(t, should.ContainText(ctx, d, "a", "Projects", fast))
	assert.NoError(t, should.NotContainText(ctx, d, "a", "Learn more", fast))
	assert.Error(t, should.NotContainText(ctx, d, "a", "Home", fast))
	assert.Error(t, should.NotContainText(ctx, d, "#none", "Home", fast))
	assert.NoError(t, should.HaveAttr(ctx, d, "#toggle", "data-checked-state", "false", fast))
	assert.Error(t, should.HaveAttr(ctx, d, "#toggle", "data-checked-state", "true", fast))
	assert.Error(t, should.HaveAttr(ctx, d, "#toggle", "aria-disabled", "true", fast))
}

func TestHaveAttrContaining(t *testing.T) {
	d := newDriver(t)
	d.EXPECT().Elements(gomock.Any(), "a.docs").Return([]browser.Element{
		{Attrs: map[string]string{"href": "https://docs.openshift.com/container-platform/4.15/applications/deployments/what-deployments-are.html"}},
	}, nil).AnyTimes()

	ctx := context.Background()
	assert.NoError(t, should.HaveAttrContaining(ctx, d, "a.docs", "href", "/deployments", fast))

	err := should.HaveAttrContaining(ctx, d, "a.docs", "href", "/deploymentconfigs", fast)
	var ae *should.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, err.Error(), "a.docs")
	assert.Error(t, should.HaveAttrContaining(ctx, d, "a.docs", "target", "_blank", fast))
}

func TestEventually_AbortsWhenBrowserClosed(t *testing.T) {
	calls := 0
	start := time.Now()
	err := should.Eventually(context.Background(), time.Minute, func(context.Context) error {
		calls++
		return browser.ErrClosed
	}, fast)
	assert.ErrorIs(t, err, browser.ErrClosed)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestEventually_ReportsLastFailure(t *testing.T) {
	n := 0
	err := should.Eventually(context.Background(), 20*time.Millisecond, func(context.Context) error {
		n++
		return errors.New("still loading")
	}, fast)
	assert.ErrorIs(t, err, should.ErrConditionNotMet)
	assert.Contains(t, err.Error(), "still loading")
	assert.Greater(t, n, 1)
}

func TestPseudoLocalizedMatcher(t *testing.T) {
	g := NewWithT(t)
	g.Expect("[Ðḗŧȧīŀş]").To(should.PseudoLocalized())
	g.Expect("Details").NotTo(should.PseudoLocalized())
	g.Expect([]string{"[Ŀȧƀḗŀş]", ""}).To(should.PseudoLocalized())
	g.Expect(texts("[Ŀȧƀḗŀş]", "Labels")).NotTo(should.PseudoLocalized())
	g.Expect(browser.Element{Text: "[Ȧƞƞǿŧȧŧīǿƞş]"}).To(should.PseudoLocalized())

	_, err := should.PseudoLocalized().Match(42)
	g.Expect(err).To(HaveOccurred())
}
