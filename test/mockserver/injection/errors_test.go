// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package injection

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StringKe/console-e2e/internal/config"
)

func TestInjector_Always(t *testing.T) {
	in := NewInjector()
	require.NoError(t, in.Fail(`^/api/loki/`, FaultServerError))

	for range 3 {
		got := in.Check("/api/loki/flow/records", http.MethodGet)
		require.NotNil(t, got)
		assert.Equal(t, http.StatusInternalServerError, got.StatusCode())
	}
	assert.Nil(t, in.Check("/api/kubernetes/version", http.MethodGet))
}

func TestInjector_Count(t *testing.T) {
	in := NewInjector()
	require.NoError(t, in.FailTimes(`records`, FaultUnauthorized, 2))

	assert.NotNil(t, in.Check("/records", http.MethodGet))
	assert.NotNil(t, in.Check("/records", http.MethodGet))
	assert.Nil(t, in.Check("/records", http.MethodGet))
}

func TestInjector_MethodAndProbability(t *testing.T) {
	in := NewInjector()
	require.NoError(t, in.Add(Rule{Path: `.*`, Method: `^POST$`, Fault: FaultNotFound}))
	require.NoError(t, in.Add(Rule{Path: `.*`, Fault: FaultUnavailable, Trigger: TriggerProbability, Probability: 0}))

	assert.Nil(t, in.Check("/x", http.MethodGet))
	got := in.Check("/x", http.MethodPost)
	require.NotNil(t, got)
	assert.Equal(t, http.StatusNotFound, got.StatusCode())
}

func TestInjector_Slow(t *testing.T) {
	in := NewInjector()
	require.NoError(t, in.Add(Rule{Path: `.*`, Fault: FaultSlow, Delay: config.Duration{Duration: time.Second}}))

	got := in.Check("/x", http.MethodGet)
	require.NotNil(t, got)
	assert.Equal(t, 0, got.StatusCode())
	assert.Equal(t, time.Second, got.Delay)
}

func TestInjector_RemoveAndClear(t *testing.T) {
	in := NewInjector()
	require.NoError(t, in.Fail("a", FaultServerError))
	require.NoError(t, in.Fail("b", FaultServerError))

	in.Remove("a")
	assert.Equal(t, 1, in.Len())
	assert.Nil(t, in.Check("a", http.MethodGet))

	in.Clear()
	assert.Equal(t, 0, in.Len())
}

func TestInjector_InvalidPattern(t *testing.T) {
	assert.Error(t, NewInjector().Fail("(", FaultServerError))
}

func TestRule_DecodesDelayString(t *testing.T) {
	var rule Rule
	require.NoError(t, json.Unmarshal([]byte(`{"path":"/flow/records","fault":"slow","delay":"2s"}`), &rule))
	assert.Equal(t, 2*time.Second, rule.Delay.Duration)

	assert.Error(t, json.Unmarshal([]byte(`{"path":".*","fault":"slow","delay":"soon"}`), &rule))
}
