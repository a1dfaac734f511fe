// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package cluster reads cluster state through the Kubernetes API to verify
// what the admin CLI changed. OpenShift and OLM resources are handled as
// unstructured objects.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	rbacv1 "k8s.io/api/rbac/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

const (
	// DefaultInterval is the polling interval of the Wait helpers.
	DefaultInterval = 2 * time.Second
	// DefaultTimeout bounds the Wait helpers when no timeout is given.
	DefaultTimeout = 5 * time.Minute
)

// Well known kinds the suite verifies.
var (
	ClusterServiceVersionGVK = schema.GroupVersionKind{Group: "operators.coreos.com", Version: "v1alpha1", Kind: "ClusterServiceVersion"}
	SubscriptionGVK          = schema.GroupVersionKind{Group: "operators.coreos.com", Version: "v1alpha1", Kind: "Subscription"}
	CatalogSourceGVK         = schema.GroupVersionKind{Group: "operators.coreos.com", Version: "v1alpha1", Kind: "CatalogSource"}
	OperatorHubGVK           = schema.GroupVersionKind{Group: "config.openshift.io", Version: "v1", Kind: "OperatorHub"}
	IngressConfigGVK         = schema.GroupVersionKind{Group: "config.openshift.io", Version: "v1", Kind: "Ingress"}
	RouteGVK                 = schema.GroupVersionKind{Group: "route.openshift.io", Version: "v1", Kind: "Route"}
	FlowCollectorGVK         = schema.GroupVersionKind{Group: "flows.netobserv.io", Version: "v1beta2", Kind: "FlowCollector"}
)

// CSVPhaseSucceeded is the phase of an installed operator.
const CSVPhaseSucceeded = "Succeeded"

// ErrNoCSV indicates no ClusterServiceVersion matched the name prefix.
var ErrNoCSV = errors.New("no matching cluster service version")

// Client is a read-mostly view of the cluster.
type Client struct {
	c        client.Client
	log      logr.Logger
	interval time.Duration
}

// New wraps an existing controller-runtime client.
func New(c client.Client, log logr.Logger) *Client {
	return &Client{c: c, log: log.WithName("cluster"), interval: DefaultInterval}
}

// NewFromKubeconfig builds a client from a kubeconfig file.
func NewFromKubeconfig(path string, log logr.Logger) (*Client, error) {
	config, err := clientcmd.BuildConfigFromFlags("", path)
	if err != nil {
		return nil, fmt.Errorf("build config: %w", err)
	}

	s := runtime.NewScheme()
	if err := scheme.AddToScheme(s); err != nil {
		return nil, fmt.Errorf("add core scheme: %w", err)
	}

	c, err := client.New(config, client.Options{Scheme: s})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return New(c, log), nil
}

// WithInterval sets the polling interval of the Wait helpers.
func (c *Client) WithInterval(d time.Duration) *Client {
	if d > 0 {
		c.interval = d
	}
	return c
}

// Raw returns the underlying controller-runtime client.
func (c *Client) Raw() client.Client {
	return c.c
}

// Object returns an empty unstructured object addressing name in namespace.
func Object(gvk schema.GroupVersionKind, name, namespace string) *unstructured.Unstructured {
	u := &unstructured.Unstructured{}
	u.SetGroupVersionKind(gvk)
	u.SetName(name)
	u.SetNamespace(namespace)
	return u
}

// Get fetches an unstructured object.
func (c *Client) Get(ctx context.Context, gvk schema.GroupVersionKind, name, namespace string) (*unstructured.Unstructured, error) {
	u := Object(gvk, name, namespace)
	if err := c.c.Get(ctx, client.ObjectKeyFromObject(u), u); err != nil {
		return nil, err
	}
	return u, nil
}

// Exists reports whether obj is present. obj is filled when it is.
func (c *Client) Exists(ctx context.Context, obj client.Object) (bool, error) {
	err := c.c.Get(ctx, client.ObjectKeyFromObject(obj), obj)
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// WaitForAbsent blocks until obj is not found.
func (c *Client) WaitForAbsent(ctx context.Context, obj client.Object, timeout time.Duration) error {
	key := client.ObjectKeyFromObject(obj)
	err := c.poll(ctx, timeout, func(ctx context.Context) (bool, error) {
		err := c.c.Get(ctx, key, obj)
		if apierrors.IsNotFound(err) {
			return true, nil
		}
		return false, err
	})
	if err != nil {
		return fmt.Errorf("wait for %s to be deleted: %w", describe(obj, key), err)
	}
	return nil
}

// WaitForField blocks until check accepts the fetched object. A missing
// object counts as not ready.
func (c *Client) WaitForField(ctx context.Context, obj client.Object, timeout time.Duration, check func(client.Object) bool) error {
	key := client.ObjectKeyFromObject(obj)
	return c.poll(ctx, timeout, func(ctx context.Context) (bool, error) {
		if err := c.c.Get(ctx, key, obj); err != nil {
			if apierrors.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		return check(obj), nil
	})
}

// HasClusterRole reports whether a ClusterRoleBinding grants role to user.
func (c *Client) HasClusterRole(ctx context.Context, role, user string) (bool, error) {
	var bindings rbacv1.ClusterRoleBindingList
	if err := c.c.List(ctx, &bindings); err != nil {
		return false, fmt.Errorf("list cluster role bindings: %w", err)
	}
	for _, b := range bindings.Items {
		if b.RoleRef.Kind != "ClusterRole" || b.RoleRef.Name != role {
			continue
		}
		for _, s := range b.Subjects {
			if s.Kind == rbacv1.UserKind && s.Name == user {
				return true, nil
			}
		}
	}
	return false, nil
}

// CSVPhase returns the phase of the first ClusterServiceVersion in
// namespace whose name starts with prefix.
func (c *Client) CSVPhase(ctx context.Context, namespace, prefix string) (string, error) {
	list := &unstructured.UnstructuredList{}
	list.SetGroupVersionKind(ClusterServiceVersionGVK.GroupVersion().WithKind(ClusterServiceVersionGVK.Kind + "List"))
	if err := c.c.List(ctx, list, client.InNamespace(namespace)); err != nil {
		return "", fmt.Errorf("list cluster service versions: %w", err)
	}
	for _, item := range list.Items {
		if !strings.HasPrefix(item.GetName(), prefix) {
			continue
		}
		phase, _, err := unstructured.NestedString(item.Object, "status", "phase")
		if err != nil {
			return "", err
		}
		return phase, nil
	}
	return "", fmt.Errorf("%w: %s/%s*", ErrNoCSV, namespace, prefix)
}

// WaitForCSVSucceeded blocks until the operator's ClusterServiceVersion
// reports Succeeded.
func (c *Client) WaitForCSVSucceeded(ctx context.Context, namespace, prefix string, timeout time.Duration) error {
	var last string
	err := c.poll(ctx, timeout, func(ctx context.Context) (bool, error) {
		phase, err := c.CSVPhase(ctx, namespace, prefix)
		if errors.Is(err, ErrNoCSV) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		last = phase
		return phase == CSVPhaseSucceeded, nil
	})
	if err != nil {
		return fmt.Errorf("csv %s/%s* not succeeded (phase %q): %w", namespace, prefix, last, err)
	}
	c.log.Info("Operator installed", "namespace", namespace, "csv", prefix)
	return nil
}

// RouteHost returns spec.host of a route.
func (c *Client) RouteHost(ctx context.Context, name, namespace string) (string, error) {
	u, err := c.Get(ctx, RouteGVK, name, namespace)
	if err != nil {
		return "", err
	}
	host, _, err := unstructured.NestedString(u.Object, "spec", "host")
	return host, err
}

// AppsDomain returns spec.appsDomain of the cluster ingress config.
func (c *Client) AppsDomain(ctx context.Context) (string, error) {
	u, err := c.Get(ctx, IngressConfigGVK, "cluster", "")
	if err != nil {
		return "", err
	}
	domain, _, err := unstructured.NestedString(u.Object, "spec", "appsDomain")
	return domain, err
}

func (c *Client) poll(ctx context.Context, timeout time.Duration, cond wait.ConditionWithContextFunc) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return wait.PollUntilContextTimeout(ctx, c.interval, timeout, true, cond)
}

func describe(obj client.Object, key types.NamespacedName) string {
	kind := obj.GetObjectKind().GroupVersionKind().Kind
	if kind == "" {
		kind = fmt.Sprintf("%T", obj)
	}
	return fmt.Sprintf("%s %s", kind, key)
}
