// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package operators installs the network observability operator for the
// plugin specs: catalog source, subscription and FlowCollector.
//
// Changes are applied with the admin CLI and verified through the
// Kubernetes API.
package operators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/StringKe/console-e2e/internal/cluster"
	"github.com/StringKe/console-e2e/internal/isolation"
	"github.com/StringKe/console-e2e/internal/oc"
)

// Catalog and operator coordinates.
const (
	MarketplaceNamespace = "openshift-marketplace"
	OperatorNamespace    = "openshift-netobserv-operator"
	PackageName          = "netobserv-operator"
	Channel              = "stable"
	CSVPrefix            = "network-observability-operator"

	UpstreamCatalogImage       = "quay.io/netobserv/network-observability-operator-catalog:v0.0.0-main"
	UpstreamCatalogName        = "netobserv-test"
	UpstreamCatalogDisplayName = "NetObserv QE"

	// CatalogRegistry hosts both the upstream and the QE catalog images.
	CatalogRegistry = "quay.io"

	QECatalogName         = "qe-app-registry"
	QEIndexRepository     = "quay.io/openshift-qe-optional-operators/aosqe-index"
	ProductionDisplayName = "Production Operators"

	FlowCollectorName      = "cluster"
	FlowCollectorNamespace = "netobserv"
	FeaturePacketDrop      = "PacketDrop"
)

// Default timeouts.
const (
	DefaultCatalogTimeout       = 5 * time.Minute
	DefaultInstallTimeout       = 10 * time.Minute
	DefaultFlowCollectorTimeout = 10 * time.Minute
)

var operatorGroupGVK = schema.GroupVersionKind{Group: "operators.coreos.com", Version: "v1", Kind: "OperatorGroup"}

// ErrInvalidVersion indicates a cluster version that has no major.minor.
var ErrInvalidVersion = errors.New("invalid cluster version")

// Options configures an Installer.
type Options struct {
	CLI      *oc.CLI
	Kube     *cluster.Client
	Resolver *Resolver
	Log      logr.Logger

	CatalogTimeout       time.Duration
	InstallTimeout       time.Duration
	FlowCollectorTimeout time.Duration
}

// Installer manages the operator lifecycle on the cluster under test.
type Installer struct {
	cli      *oc.CLI
	kube     *cluster.Client
	resolver *Resolver
	log      logr.Logger

	catalogTimeout       time.Duration
	installTimeout       time.Duration
	flowCollectorTimeout time.Duration
}

// NewInstaller creates an Installer. A nil Resolver installs catalog images
// by tag.
func NewInstaller(opts Options) *Installer {
	i := &Installer{
		cli:                  opts.CLI,
		kube:                 opts.Kube,
		resolver:             opts.Resolver,
		log:                  opts.Log.WithName("operators"),
		catalogTimeout:       opts.CatalogTimeout,
		installTimeout:       opts.InstallTimeout,
		flowCollectorTimeout: opts.FlowCollectorTimeout,
	}
	if i.catalogTimeout <= 0 {
		i.catalogTimeout = DefaultCatalogTimeout
	}
	if i.installTimeout <= 0 {
		i.installTimeout = DefaultInstallTimeout
	}
	if i.flowCollectorTimeout <= 0 {
		i.flowCollectorTimeout = DefaultFlowCollectorTimeout
	}
	return i
}

func (i *Installer) apply(ctx context.Context, u *unstructured.Unstructured) error {
	data, err := Render(u)
	if err != nil {
		return err
	}
	if err := i.cli.Apply(ctx, data, u.GetNamespace()); err != nil {
		return fmt.Errorf("apply %s %s: %w", u.GetKind(), u.GetName(), err)
	}
	return nil
}

// CreateCustomCatalog creates a catalog source from image and waits until
// the catalog serves content.
func (i *Installer) CreateCustomCatalog(ctx context.Context, image, name, displayName string) error {
	pinned := image
	if i.resolver != nil {
		var err error
		if pinned, err = i.resolver.Resolve(ctx, image); err != nil {
			return err
		}
	}
	i.log.Info("Creating catalog source", "name", name, "image", pinned)

	cs := CatalogSource{Name: name, Image: pinned, DisplayName: displayName}
	if err := i.apply(ctx, cs.Object()); err != nil {
		return err
	}

	obj := cluster.Object(cluster.CatalogSourceGVK, name, MarketplaceNamespace)
	err := i.kube.WaitForField(ctx, obj, i.catalogTimeout, func(o client.Object) bool {
		state, _, _ := unstructured.NestedString(o.(*unstructured.Unstructured).Object,
			"status", "connectionState", "lastObservedState")
		return state == "READY"
	})
	if err != nil {
		return fmt.Errorf("catalog source %s not ready: %w", name, err)
	}
	return nil
}

// EnableQECatalogSource creates the QE index catalog matching the cluster's
// minor version. An empty name uses QECatalogName.
func (i *Installer) EnableQECatalogSource(ctx context.Context, name, displayName string) error {
	if name == "" {
		name = QECatalogName
	}
	version, err := i.cli.JSONPath(ctx, "clusterversion", "version", "", "{.status.desired.version}")
	if err != nil {
		return fmt.Errorf("read cluster version: %w", err)
	}
	image, err := QEIndexImage(version)
	if err != nil {
		return err
	}
	return i.CreateCustomCatalog(ctx, image, name, displayName)
}

// QEIndexImage returns the QE index image for a cluster version such as
// "4.15.0-0.nightly-2024-01-01-000000".
func QEIndexImage(version string) (string, error) {
	parts := strings.SplitN(strings.TrimPrefix(version, "v"), ".", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	return fmt.Sprintf("%s:v%s.%s", QEIndexRepository, parts[0], parts[1]), nil
}

// DeleteCatalog removes a catalog source.
func (i *Installer) DeleteCatalog(ctx context.Context, name string) error {
	return i.cli.Delete(ctx, "catalogsource", name, MarketplaceNamespace)
}

// Install subscribes the operator namespace to the operator from catalog
// and waits for the ClusterServiceVersion to succeed.
func (i *Installer) Install(ctx context.Context, catalog string) error {
	ns := cluster.Object(schema.GroupVersionKind{Version: "v1", Kind: "Namespace"}, OperatorNamespace, "")
	ns.SetLabels(map[string]string{"openshift.io/cluster-monitoring": "true"})

	og := cluster.Object(operatorGroupGVK, OperatorNamespace, OperatorNamespace)
	og.Object["spec"] = map[string]any{}

	sub := Subscription{
		Namespace: OperatorNamespace,
		Package:   PackageName,
		Channel:   Channel,
		Source:    catalog,
	}

	i.log.Info("Installing operator", "package", PackageName, "catalog", catalog)
	for _, u := range []*unstructured.Unstructured{ns, og, sub.Object()} {
		if err := i.apply(ctx, u); err != nil {
			return err
		}
	}
	return i.kube.WaitForCSVSucceeded(ctx, OperatorNamespace, CSVPrefix, i.installTimeout)
}

// CreateFlowCollector creates the FlowCollector and waits for it to
// report Ready.
func (i *Installer) CreateFlowCollector(ctx context.Context, fc FlowCollector) error {
	i.log.Info("Creating flow collector", "features", fc.Features)
	if err := i.apply(ctx, fc.Object()); err != nil {
		return err
	}

	obj := cluster.Object(cluster.FlowCollectorGVK, FlowCollectorName, "")
	err := i.kube.WaitForField(ctx, obj, i.flowCollectorTimeout, func(o client.Object) bool {
		return conditionTrue(o.(*unstructured.Unstructured), "Ready")
	})
	if err != nil {
		return fmt.Errorf("flow collector not ready: %w", err)
	}
	return nil
}

// DeleteFlowCollector deletes the FlowCollector and waits until it is
// gone.
func (i *Installer) DeleteFlowCollector(ctx context.Context) error {
	if err := i.cli.Delete(ctx, "flowcollector", FlowCollectorName, ""); err != nil {
		return err
	}
	obj := cluster.Object(cluster.FlowCollectorGVK, FlowCollectorName, "")
	return i.kube.WaitForAbsent(ctx, obj, i.flowCollectorTimeout)
}

// CatalogStep creates a custom catalog and removes it on rollback.
func (i *Installer) CatalogStep(image, name, displayName string) isolation.Step {
	return isolation.Step{
		Name: "catalog source " + name,
		Setup: func(ctx context.Context) error {
			return i.CreateCustomCatalog(ctx, image, name, displayName)
		},
		Teardown: func(ctx context.Context) error {
			return i.DeleteCatalog(ctx, name)
		},
	}
}

// QECatalogStep enables the QE catalog. The catalog is shared by other
// suites and stays in place on rollback.
func (i *Installer) QECatalogStep(name, displayName string) isolation.Step {
	return isolation.Step{
		Name: "qe catalog source",
		Setup: func(ctx context.Context) error {
			return i.EnableQECatalogSource(ctx, name, displayName)
		},
	}
}

// InstallStep installs the operator. The operator stays installed on
// rollback.
func (i *Installer) InstallStep(catalog string) isolation.Step {
	return isolation.Step{
		Name: "install " + PackageName,
		Setup: func(ctx context.Context) error {
			return i.Install(ctx, catalog)
		},
	}
}

// FlowCollectorStep creates the FlowCollector and deletes it on rollback.
func (i *Installer) FlowCollectorStep(fc FlowCollector) isolation.Step {
	return isolation.Step{
		Name: "flowcollector",
		Setup: func(ctx context.Context) error {
			return i.CreateFlowCollector(ctx, fc)
		},
		Teardown: i.DeleteFlowCollector,
	}
}

func conditionTrue(u *unstructured.Unstructured, condType string) bool {
	conditions, _, _ := unstructured.NestedSlice(u.Object, "status", "conditions")
	for _, c := range conditions {
		m, ok := c.(map[string]any)
		if !ok {
			continue
		}
		if m["type"] == condType && m["status"] == "True" {
			return true
		}
	}
	return false
}
