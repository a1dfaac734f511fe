// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package framework

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/StringKe/console-e2e/internal/browser/mock"
)

func TestFramework_ResetIntercepts(t *testing.T) {
	d := mock.NewMockDriver(gomock.NewController(t))
	d.EXPECT().ClearIntercepts().Times(1)

	f := &Framework{Browser: d}
	f.ResetIntercepts()

	// Without a browser there is nothing to clear.
	(&Framework{}).ResetIntercepts()
}

func TestFramework_PageExceptions(t *testing.T) {
	d := mock.NewMockDriver(gomock.NewController(t))
	d.EXPECT().Exceptions().Return([]error{errors.New("uncaught exception: boom")})

	f := &Framework{Browser: d}
	err := f.PageExceptions()
	assert.EqualError(t, err, "uncaught exception: boom")
	assert.NoError(t, (&Framework{}).PageExceptions())
}
