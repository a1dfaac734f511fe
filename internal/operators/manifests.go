// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package operators

import (
	"fmt"
	"slices"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"github.com/StringKe/console-e2e/internal/cluster"
)

// CatalogSource describes a grpc catalog source.
type CatalogSource struct {
	Name        string
	Namespace   string
	Image       string
	DisplayName string
	Publisher   string
	// Priority orders catalogs in OperatorHub. Nil leaves the server default.
	Priority *int32
	// PollInterval refreshes the catalog image, e.g. "10m".
	PollInterval string
}

// Object returns the CatalogSource as an unstructured object.
func (c CatalogSource) Object() *unstructured.Unstructured {
	u := cluster.Object(cluster.CatalogSourceGVK, c.Name, defaultString(c.Namespace, MarketplaceNamespace))
	spec := map[string]any{
		"sourceType":  "grpc",
		"image":       c.Image,
		"displayName": c.DisplayName,
		"publisher":   defaultString(c.Publisher, "Console E2E"),
	}
	if c.Priority != nil {
		spec["priority"] = int64(*c.Priority)
	}
	if c.PollInterval != "" {
		spec["updateStrategy"] = map[string]any{
			"registryPoll": map[string]any{"interval": c.PollInterval},
		}
	}
	u.Object["spec"] = spec
	return u
}

// Subscription subscribes a namespace to an operator package.
type Subscription struct {
	Name            string
	Namespace       string
	Package         string
	Channel         string
	Source          string
	SourceNamespace string
	// Manual approval holds install plans until approved. Defaults to
	// automatic.
	ManualApproval *bool
}

// Object returns the Subscription as an unstructured object.
func (s Subscription) Object() *unstructured.Unstructured {
	u := cluster.Object(cluster.SubscriptionGVK, defaultString(s.Name, s.Package), s.Namespace)
	approval := "Automatic"
	if ptr.Deref(s.ManualApproval, false) {
		approval = "Manual"
	}
	u.Object["spec"] = map[string]any{
		"name":                s.Package,
		"channel":             s.Channel,
		"source":              s.Source,
		"sourceNamespace":     defaultString(s.SourceNamespace, MarketplaceNamespace),
		"installPlanApproval": approval,
	}
	return u
}

// FlowCollector configures the network observability pipeline.
type FlowCollector struct {
	// Namespace is where the flow pipeline is deployed.
	Namespace string
	// Features enables eBPF agent features such as "PacketDrop".
	Features []string
	// Privileged runs the eBPF agent privileged. PacketDrop requires it and
	// it defaults to true when that feature is on.
	Privileged *bool
	// Sampling is the eBPF sampling ratio.
	Sampling *int32
	// LokiURL is the Loki endpoint in monolithic mode.
	LokiURL string
}

// Object returns the FlowCollector as an unstructured object. The
// collector is a singleton named "cluster".
func (f FlowCollector) Object() *unstructured.Unstructured {
	u := cluster.Object(cluster.FlowCollectorGVK, FlowCollectorName, "")

	privileged := f.Privileged
	if privileged == nil && slices.Contains(f.Features, FeaturePacketDrop) {
		privileged = ptr.To(true)
	}
	ebpf := map[string]any{
		"sampling": int64(ptr.Deref(f.Sampling, 1)),
	}
	if privileged != nil {
		ebpf["privileged"] = *privileged
	}
	if len(f.Features) > 0 {
		features := make([]any, 0, len(f.Features))
		for _, feat := range f.Features {
			features = append(features, feat)
		}
		ebpf["features"] = features
	}

	ns := defaultString(f.Namespace, FlowCollectorNamespace)
	u.Object["spec"] = map[string]any{
		"namespace":       ns,
		"deploymentModel": "Direct",
		"agent": map[string]any{
			"type": "eBPF",
			"ebpf": ebpf,
		},
		"loki": map[string]any{
			"enable": true,
			"mode":   "Monolithic",
			"monolithic": map[string]any{
				"url": defaultString(f.LokiURL, fmt.Sprintf("http://loki.%s.svc:3100/", ns)),
			},
		},
		"consolePlugin": map[string]any{
			"enable": true,
		},
	}
	return u
}

// Render serializes an object for `oc apply -f -`.
func Render(u *unstructured.Unstructured) ([]byte, error) {
	data, err := yaml.Marshal(u.Object)
	if err != nil {
		return nil, fmt.Errorf("render %s %s: %w", u.GetKind(), u.GetName(), err)
	}
	return data, nil
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
