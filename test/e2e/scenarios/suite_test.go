// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

//go:build e2e

package scenarios

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/StringKe/console-e2e/test/e2e/framework"
)

var f *framework.Framework

func TestScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Console E2E Suite")
}

var _ = BeforeSuite(func() {
	opts := framework.DefaultOptions()
	opts.LogWriter = GinkgoWriter
	opts.FixturesDir = fixturesDir

	var err error
	f, err = framework.New(opts)
	Expect(err).NotTo(HaveOccurred(), "framework setup")
})

var _ = AfterSuite(func() {
	if f != nil {
		f.Cleanup()
	}
})

// Uncaught page exceptions fail the spec that raised them.
var _ = AfterEach(func() {
	if f != nil {
		f.ResetIntercepts()
		Expect(f.PageExceptions()).To(Succeed(), "uncaught exception in the console")
	}
})
