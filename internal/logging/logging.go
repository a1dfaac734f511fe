// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package logging builds the logr.Logger shared by the suite.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Options configures the logger.
type Options struct {
	// Writer receives log lines. Defaults to stdout.
	Writer io.Writer
	// Development enables human readable console output and debug level.
	Development bool
	// Verbosity raises the logr V-level that is printed.
	Verbosity int
}

// New returns a zap-backed logr.Logger.
func New(opts Options) logr.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	zopts := []zap.Opts{
		zap.WriteTo(w),
		zap.UseDevMode(opts.Development),
		func(o *zap.Options) {
			o.TimeEncoder = zapcore.TimeEncoderOfLayout(time.RFC3339)
		},
	}
	if opts.Verbosity > 0 {
		zopts = append(zopts, zap.Level(zapcore.Level(-opts.Verbosity)))
	}
	return zap.New(zopts...).WithName("console-e2e")
}
