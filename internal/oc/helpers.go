// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package oc

import (
	"context"
	"fmt"
	"strings"
)

// nsArgs appends -n namespace when namespace is set.
func nsArgs(args []string, namespace string) []string {
	if namespace != "" {
		args = append(args, "-n", namespace)
	}
	return args
}

// Apply applies a manifest read from stdin.
func (c *CLI) Apply(ctx context.Context, manifest []byte, namespace string) error {
	_, err := c.RunWith(ctx, nsArgs([]string{"apply", "-f", "-"}, namespace), WithStdin(manifest))
	return err
}

// CreateFromFile creates the resources defined in file.
func (c *CLI) CreateFromFile(ctx context.Context, file, namespace string) error {
	_, err := c.RunWith(ctx, nsArgs([]string{"create", "-f", file}, namespace))
	return err
}

// Delete deletes a resource. A resource that is already gone is not an
// error.
func (c *CLI) Delete(ctx context.Context, kind, name, namespace string) error {
	_, err := c.RunWith(ctx, nsArgs([]string{"delete", kind, name, "--ignore-not-found"}, namespace))
	return err
}

// Exists reports whether a resource exists.
func (c *CLI) Exists(ctx context.Context, kind, name, namespace string) (bool, error) {
	res, err := c.RunWith(ctx, nsArgs([]string{"get", kind, name, "-o", "name"}, namespace), AllowFailure())
	if err != nil {
		return false, err
	}
	if res.Success() {
		return true, nil
	}
	if isNotFoundOutput(res.Stderr) {
		return false, nil
	}
	return false, &ExitError{Result: res}
}

// JSONPath reads a field of a resource with a jsonpath expression such as
// "{.spec.host}".
func (c *CLI) JSONPath(ctx context.Context, kind, name, namespace, expr string) (string, error) {
	res, err := c.RunWith(ctx, nsArgs([]string{"get", kind, name, "-o", "jsonpath=" + expr}, namespace))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Patch patches a resource. patchType is one of json, merge or strategic.
func (c *CLI) Patch(ctx context.Context, kind, name, namespace, patchType, patch string) error {
	_, err := c.RunWith(ctx, nsArgs([]string{"patch", kind, name, "--type", patchType, "-p", patch}, namespace))
	return err
}

// AddClusterRoleToUser binds a cluster role to a user.
func (c *CLI) AddClusterRoleToUser(ctx context.Context, role, user string) error {
	if user == "" {
		return fmt.Errorf("add cluster role %s: empty user", role)
	}
	_, err := c.Run(ctx, "adm", "policy", "add-cluster-role-to-user", role, user)
	return err
}

// RemoveClusterRoleFromUser removes a cluster role binding from a user.
func (c *CLI) RemoveClusterRoleFromUser(ctx context.Context, role, user string) error {
	if user == "" {
		return fmt.Errorf("remove cluster role %s: empty user", role)
	}
	_, err := c.Run(ctx, "adm", "policy", "remove-cluster-role-from-user", role, user)
	return err
}

// WhoAmI returns the user the kubeconfig authenticates as.
func (c *CLI) WhoAmI(ctx context.Context) (string, error) {
	res, err := c.Run(ctx, "whoami")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}
