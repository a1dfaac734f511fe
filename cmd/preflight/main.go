// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Command preflight checks that the environment can drive the console suite:
// the configuration validates, the admin CLI reaches the cluster and the
// operator catalog image resolves.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/go-containerregistry/pkg/name"

	"github.com/StringKe/console-e2e/internal/cluster"
	"github.com/StringKe/console-e2e/internal/config"
	"github.com/StringKe/console-e2e/internal/logging"
	"github.com/StringKe/console-e2e/internal/oc"
	"github.com/StringKe/console-e2e/internal/operators"
)

func main() {
	var configFile, pullSecret string
	var skipCatalog, development bool
	var verbosity int
	var timeout time.Duration
	flag.StringVar(&configFile, "config", "", "YAML configuration file. Environment variables still override it.")
	flag.StringVar(&pullSecret, "pull-secret", "", "Docker config JSON used to authenticate against the catalog registry.")
	flag.BoolVar(&skipCatalog, "skip-catalog", false, "Do not resolve the operator catalog image.")
	flag.BoolVar(&development, "development", true, "Human readable log output.")
	flag.IntVar(&verbosity, "v", 0, "Log verbosity.")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall time budget of the checks.")
	flag.Parse()

	log := logging.New(logging.Options{Writer: os.Stderr, Development: development, Verbosity: verbosity}).
		WithName("preflight")

	if configFile != "" {
		if err := os.Setenv(config.EnvConfigFile, configFile); err != nil {
			log.Error(err, "Failed to set config file")
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := run(ctx, log, pullSecret, skipCatalog); err != nil {
		log.Error(err, "Preflight failed")
		os.Exit(1)
	}
	log.Info("Preflight passed")
}

func run(ctx context.Context, log logr.Logger, pullSecret string, skipCatalog bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log.Info("Configuration loaded", "baseURL", cfg.BaseURL, "user", cfg.LoginUsername, "idp", cfg.LoginIDP)

	cli := oc.New(oc.Options{
		Binary:     cfg.OCBinary,
		Kubeconfig: cfg.KubeconfigPath,
		Timeout:    cfg.ExecTimeout.Duration,
		Log:        log,
	})
	admin, err := cli.WhoAmI(ctx)
	if err != nil {
		return fmt.Errorf("admin CLI: %w", err)
	}
	log.Info("Admin CLI ready", "user", admin)

	kube, err := cluster.NewFromKubeconfig(cfg.KubeconfigPath, log)
	if err != nil {
		return fmt.Errorf("cluster client: %w", err)
	}
	domain, err := kube.AppsDomain(ctx)
	if err != nil {
		return fmt.Errorf("read ingress config: %w", err)
	}
	if domain != "" {
		log.Info("Cluster carries a custom appsDomain, route specs will reset it", "appsDomain", domain)
	}
	hasAdmin, err := kube.HasClusterRole(ctx, "cluster-admin", cfg.LoginUsername)
	if err != nil {
		return fmt.Errorf("read cluster role bindings: %w", err)
	}
	log.Info("Login user role", "user", cfg.LoginUsername, "clusterAdmin", hasAdmin)

	if skipCatalog || !cfg.UpstreamCatalog() {
		return nil
	}
	return checkCatalog(ctx, log, kube, pullSecret)
}

// checkCatalog resolves the upstream catalog image. Credentials come from
// the -pull-secret file, then the cluster pull secret, then the local
// docker keychain.
func checkCatalog(ctx context.Context, log logr.Logger, kube *cluster.Client, pullSecret string) error {
	ref, err := name.ParseReference(operators.UpstreamCatalogImage)
	if err != nil {
		return err
	}
	registry := ref.Context().RegistryStr()

	var resolver *operators.Resolver
	if pullSecret != "" {
		data, err := os.ReadFile(pullSecret)
		if err != nil {
			return fmt.Errorf("read pull secret: %w", err)
		}
		auth, err := operators.AuthFromDockerConfig(data, registry)
		if err != nil {
			return fmt.Errorf("pull secret: %w", err)
		}
		resolver = operators.NewResolver(operators.WithAuth(auth))
	} else {
		resolver = operators.ResolverForCluster(ctx, kube.Raw(), registry, log)
	}

	pinned, err := resolver.Resolve(ctx, operators.UpstreamCatalogImage)
	if err != nil {
		return fmt.Errorf("resolve catalog image: %w", err)
	}
	log.Info("Catalog image resolved", "image", operators.UpstreamCatalogImage, "digest", pinned)
	return nil
}
