// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package isolation

import (
	"context"
	"errors"
	"fmt"

	"github.com/StringKe/console-e2e/internal/oc"
)

// ErrStillPresent is returned by verifications that found a resource the
// teardown should have removed.
var ErrStillPresent = errors.New("resource still present after teardown")

// ClusterRole grants role to user for the duration of the transaction.
func ClusterRole(cli *oc.CLI, role, user string) Step {
	return Step{
		Name: fmt.Sprintf("cluster role %s for %s", role, user),
		Setup: func(ctx context.Context) error {
			return cli.AddClusterRoleToUser(ctx, role, user)
		},
		Teardown: func(ctx context.Context) error {
			return cli.RemoveClusterRoleFromUser(ctx, role, user)
		},
	}
}

// ResourceFromFile creates the resource defined in file and deletes it on
// rollback, verifying the cluster reports it not found afterwards.
func ResourceFromFile(cli *oc.CLI, file, kind, name, namespace string) Step {
	return Step{
		Name: fmt.Sprintf("%s %s/%s", kind, namespace, name),
		Setup: func(ctx context.Context) error {
			return cli.CreateFromFile(ctx, file, namespace)
		},
		Teardown: func(ctx context.Context) error {
			return cli.Delete(ctx, kind, name, namespace)
		},
		Verify: func(ctx context.Context) error {
			return VerifyAbsent(ctx, cli, kind, name, namespace)
		},
	}
}

// VerifyAbsent fails with ErrStillPresent when the resource exists.
func VerifyAbsent(ctx context.Context, cli *oc.CLI, kind, name, namespace string) error {
	exists, err := cli.Exists(ctx, kind, name, namespace)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s %s/%s", ErrStillPresent, kind, namespace, name)
	}
	return nil
}
