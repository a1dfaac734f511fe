// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

//go:build e2e

package scenarios

import "time"

// Common test constants used across E2E scenarios
const (
	fixturesDir       = "../fixtures"
	adminPerspective  = "Administrator"
	pseudoQuery       = "pseudolocalization=true&lng=en"
	pseudoLoadTimeout = 40 * time.Second
	consoleRoute      = "console"
)
