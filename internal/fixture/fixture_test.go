// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package fixture

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "netobserv/records.json", `{"records":[]}`)
	l := NewLoader(dir)

	data, err := l.Load("netobserv/records.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"records":[]}`, string(data))

	// Mutating the returned slice must not leak into the cache.
	data[0] = 'X'
	again, err := l.Load("./netobserv/records.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"records":[]}`, string(again))

	// Served from cache after the file is gone.
	require.NoError(t, os.Remove(filepath.Join(dir, "netobserv", "records.json")))
	_, err = l.Load("netobserv/records.json")
	assert.NoError(t, err)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "broken.json", `{"records":`)
	l := NewLoader(dir)

	_, err := l.Load("broken.json")
	assert.ErrorIs(t, err, ErrInvalidFixture)

	_, err = l.Load("../outside.json")
	assert.ErrorIs(t, err, ErrEscapesRoot)

	_, err = l.Load("missing.json")
	assert.Error(t, err)
}

func TestLoader_Path(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "testnp.yaml", "kind: NetworkPolicy\n")
	l := NewLoader(dir)

	p, err := l.Path("testnp.yaml")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p))

	_, err = l.Path("nope.yaml")
	assert.Error(t, err)
}

func TestQuery_KeepsOrder(t *testing.T) {
	q := Query{}.
		Add("timeRange", "300").
		Add("reporter", "destination").
		Add("filters", "").
		Add("match", "all")

	assert.Equal(t, "timeRange=300&reporter=destination&filters=&match=all", q.Encode())

	q2 := q.Set("reporter", "source").Set("packetLoss", "dropped")
	assert.Equal(t, "timeRange=300&reporter=source&filters=&match=all&packetLoss=dropped", q2.Encode())
	// Set does not mutate the receiver.
	v, _ := q.Get("reporter")
	assert.Equal(t, "destination", v)
}

func TestQuery_AddDoesNotAliasBase(t *testing.T) {
	base := make(Query, 0, 4).
		Add("timeRange", "300").
		Add("filters", "")

	dropped := base.Add("packetLoss", "dropped")
	sent := base.Add("packetLoss", "sent")

	assert.Equal(t, "timeRange=300&filters=&packetLoss=dropped", dropped.Encode())
	assert.Equal(t, "timeRange=300&filters=&packetLoss=sent", sent.Encode())
	assert.Equal(t, "timeRange=300&filters=", base.Encode())
}

func TestGlob(t *testing.T) {
	tests := []struct {
		pattern string
		url     string
		want    bool
	}{
		{"**/netflow-traffic?a=1&b=", "https://console.example.com/api/proxy/plugin/netobserv/netflow-traffic?a=1&b=", true},
		{"**/netflow-traffic?a=1&b=", "https://console.example.com/netflow-traffic?b=&a=1", false},
		{"**/netflow-traffic?a=1", "https://console.example.com/netflow-traffic?a=1&extra=2", false},
		{"https://host/*/records", "https://host/api/records", true},
		{"https://host/*/records", "https://host/api/v1/records", false},
		{"**/api/**", "http://x/api/v1/flows", true},
		{"**/ünïcode", "http://x/ünïcode", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, CompileGlob(tt.pattern).Match(tt.url))
		})
	}
}

func TestRouter_MatchNewestWins(t *testing.T) {
	r := NewRouter(nil)
	older, err := r.Add(Route{Method: http.MethodGet, URL: "**/flows", Body: []byte(`{"v":1}`), Alias: "flows"})
	require.NoError(t, err)
	newer, err := r.Add(Route{Method: http.MethodGet, URL: "**/flows", Body: []byte(`{"v":2}`), Alias: "flows"})
	require.NoError(t, err)

	resp, ok := r.Match("GET", "http://console/flows")
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"v":2}`, string(resp.Body))
	assert.Equal(t, 1, newer.Hits())
	assert.Equal(t, 0, older.Hits())

	a, ok := r.Alias("flows")
	require.True(t, ok)
	assert.Same(t, newer, a)
}

func TestRouter_MethodFilter(t *testing.T) {
	r := NewRouter(nil)
	_, err := r.Add(Route{Method: http.MethodPost, URL: "**/flows", Body: []byte(`{}`)})
	require.NoError(t, err)

	_, ok := r.Match(http.MethodGet, "http://console/flows")
	assert.False(t, ok)
	_, ok = r.Match("post", "http://console/flows")
	assert.True(t, ok)
}

func TestRouter_AddFixture(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "netobserv/dropped.json", `{"result":"dropped"}`)
	r := NewRouter(NewLoader(dir))

	_, err := r.Add(Route{URL: "**/x", Fixture: "netobserv/dropped.json", StatusCode: http.StatusAccepted})
	require.NoError(t, err)
	resp, ok := r.Match(http.MethodGet, "http://h/x")
	require.True(t, ok)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "application/json", resp.ContentType)

	_, err = r.Add(Route{URL: "**/y", Fixture: "missing.json"})
	assert.Error(t, err)
	_, err = r.Add(Route{Fixture: "netobserv/dropped.json"})
	assert.Error(t, err)

	r.Reset()
	assert.Zero(t, r.Len())
}

func TestAlias_Wait(t *testing.T) {
	r := NewRouter(nil)
	alias, err := r.Add(Route{URL: "**/flows", Body: []byte(`{}`), Alias: "matchedUrl"})
	require.NoError(t, err)

	err = alias.Wait(context.Background(), 5*time.Millisecond, 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrAliasNotMatched)
	assert.Contains(t, err.Error(), "@matchedUrl")

	go func() {
		time.Sleep(10 * time.Millisecond)
		r.Match(http.MethodGet, "http://h/flows")
	}()
	assert.NoError(t, alias.Wait(context.Background(), 5*time.Millisecond, time.Second))
	assert.Equal(t, "matchedUrl", alias.Name())
}
