// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Command mockconsole serves fixture payloads in place of console backends.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/StringKe/console-e2e/internal/fixture"
	"github.com/StringKe/console-e2e/internal/logging"
	"github.com/StringKe/console-e2e/test/mockserver"
)

func main() {
	var port, verbosity int
	var fixturesDir, routesFile string
	flag.IntVar(&port, "port", mockserver.DefaultPort, "Port to listen on.")
	flag.StringVar(&fixturesDir, "fixtures", "test/e2e/fixtures", "Directory fixture paths are relative to.")
	flag.StringVar(&routesFile, "routes", "", "YAML file listing the routes to serve.")
	flag.IntVar(&verbosity, "v", 0, "Log verbosity.")
	flag.Parse()

	log := logging.New(logging.Options{Development: true, Verbosity: verbosity})

	server := mockserver.NewServer(fixture.NewRouter(fixture.NewLoader(fixturesDir)),
		mockserver.WithPort(port), mockserver.WithLogger(log))

	if routesFile != "" {
		data, err := os.ReadFile(routesFile)
		if err != nil {
			log.Error(err, "Failed to read routes", "file", routesFile)
			os.Exit(1)
		}
		specs, err := mockserver.ParseRoutes(data)
		if err != nil {
			log.Error(err, "Failed to parse routes", "file", routesFile)
			os.Exit(1)
		}
		if err := server.AddRoutes(specs); err != nil {
			log.Error(err, "Failed to register routes", "file", routesFile)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			log.Error(err, "Shutdown")
		}
	}()

	log.Info("Admin endpoints", "health", server.URL()+"/health", "reset", server.URL()+"/admin/reset")
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(err, "Server error")
		os.Exit(1)
	}
}
