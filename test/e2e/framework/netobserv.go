// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package framework

import (
	"github.com/StringKe/console-e2e/internal/config"
	"github.com/StringKe/console-e2e/internal/isolation"
	"github.com/StringKe/console-e2e/internal/operators"
)

// NetObservContext carries the catalog choice of the network observability
// specs from setup to the steps that need it.
type NetObservContext struct {
	// Upstream installs from the main-branch catalog image.
	Upstream bool
	// CatalogSource is the catalog source name subscriptions refer to.
	CatalogSource string
	// CatalogDisplayName is how the catalog is shown in OperatorHub.
	CatalogDisplayName string
	// CatalogImage is set for the upstream catalog only.
	CatalogImage string
}

// NewNetObservContext derives the catalog choice from the configuration.
func NewNetObservContext(cfg config.Config) NetObservContext {
	if cfg.UpstreamCatalog() {
		return NetObservContext{
			Upstream:           true,
			CatalogSource:      operators.UpstreamCatalogName,
			CatalogDisplayName: operators.UpstreamCatalogDisplayName,
			CatalogImage:       operators.UpstreamCatalogImage,
		}
	}
	return NetObservContext{
		CatalogSource:      operators.QECatalogName,
		CatalogDisplayName: operators.ProductionDisplayName,
	}
}

// Steps returns the isolation steps that install the operator and create a
// FlowCollector with features enabled.
func (n NetObservContext) Steps(i *operators.Installer, features ...string) []isolation.Step {
	var catalog isolation.Step
	if n.Upstream {
		catalog = i.CatalogStep(n.CatalogImage, n.CatalogSource, n.CatalogDisplayName)
	} else {
		catalog = i.QECatalogStep(n.CatalogSource, n.CatalogDisplayName)
	}
	return []isolation.Step{
		catalog,
		i.InstallStep(n.CatalogSource),
		i.FlowCollectorStep(operators.FlowCollector{Features: features}),
	}
}
