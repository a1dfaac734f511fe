// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

package operators

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// The cluster-wide pull secret, holding the credentials the nodes pull
// catalog images with.
const (
	PullSecretNamespace = "openshift-config"
	PullSecretName      = "pull-secret"
)

// Resolver pins catalog image tags to digests so a run installs the
// catalog it checked, even when a floating tag like v0.0.0-main moves.
type Resolver struct {
	nameOpts []name.Option
	auth     authn.Authenticator
	keychain authn.Keychain
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithAuth uses fixed registry credentials.
func WithAuth(auth authn.Authenticator) ResolverOption {
	return func(r *Resolver) {
		r.auth = auth
	}
}

// WithKeychain resolves credentials per registry.
func WithKeychain(kc authn.Keychain) ResolverOption {
	return func(r *Resolver) {
		r.keychain = kc
	}
}

// InsecureRegistry allows plain HTTP registries.
func InsecureRegistry() ResolverOption {
	return func(r *Resolver) {
		r.nameOpts = append(r.nameOpts, name.Insecure)
	}
}

// NewResolver creates a Resolver. Without options it uses the default
// docker keychain.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{keychain: authn.DefaultKeychain}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolverForCluster creates a Resolver authenticated with the cluster pull
// secret entry for registry. When the secret cannot be read or carries no
// entry for registry the Resolver falls back to the local keychain. opts are
// applied after the cluster credentials, so WithAuth still overrides them.
func ResolverForCluster(ctx context.Context, kube client.Reader, registry string, log logr.Logger, opts ...ResolverOption) *Resolver {
	secret := &corev1.Secret{}
	key := types.NamespacedName{Namespace: PullSecretNamespace, Name: PullSecretName}
	if err := kube.Get(ctx, key, secret); err != nil {
		log.V(1).Info("Cluster pull secret unavailable, using the local keychain", "error", err.Error())
		return NewResolver(opts...)
	}
	auth, err := AuthFromSecret(secret, registry)
	if err != nil {
		log.V(1).Info("Cluster pull secret has no entry for the catalog registry", "registry", registry)
		return NewResolver(opts...)
	}
	return NewResolver(append([]ResolverOption{WithAuth(auth)}, opts...)...)
}

// Resolve returns image pinned by digest. References that already carry a
// digest are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, image string) (string, error) {
	if image == "" {
		return "", errors.New("image reference is required")
	}

	ref, err := name.ParseReference(image, r.nameOpts...)
	if err != nil {
		return "", fmt.Errorf("parse image reference %q: %w", image, err)
	}
	if d, ok := ref.(name.Digest); ok {
		return d.String(), nil
	}

	remoteOpts := []remote.Option{remote.WithContext(ctx)}
	if r.auth != nil {
		remoteOpts = append(remoteOpts, remote.WithAuth(r.auth))
	} else if r.keychain != nil {
		remoteOpts = append(remoteOpts, remote.WithAuthFromKeychain(r.keychain))
	}

	desc, err := remote.Head(ref, remoteOpts...)
	if err != nil {
		return "", fmt.Errorf("fetch image descriptor %s: %w", ref.String(), err)
	}
	return ref.Context().Digest(desc.Digest.String()).String(), nil
}

// dockerConfig is the config.json / pull secret format.
type dockerConfig struct {
	Auths map[string]dockerAuthEntry `json:"auths"`
}

type dockerAuthEntry struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Auth     string `json:"auth,omitempty"`
}

// AuthFromDockerConfig returns the credentials for registry from a docker
// config.json or cluster pull secret.
func AuthFromDockerConfig(data []byte, registry string) (authn.Authenticator, error) {
	var config dockerConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse docker config: %w", err)
	}

	entry, ok := config.Auths[registry]
	if !ok {
		return nil, fmt.Errorf("no auth entry for registry %q", registry)
	}

	if entry.Auth != "" {
		decoded, err := base64.StdEncoding.DecodeString(entry.Auth)
		if err != nil {
			return nil, fmt.Errorf("decode auth string: %w", err)
		}
		user, pass, found := strings.Cut(string(decoded), ":")
		if !found {
			return nil, errors.New("invalid auth string format")
		}
		return &authn.Basic{Username: user, Password: pass}, nil
	}

	if entry.Username != "" && entry.Password != "" {
		return &authn.Basic{Username: entry.Username, Password: entry.Password}, nil
	}
	return nil, fmt.Errorf("auth entry for registry %q has no credentials", registry)
}

// AuthFromSecret reads registry credentials from a dockerconfigjson secret,
// such as openshift-config/pull-secret, or from username and password keys.
func AuthFromSecret(secret *corev1.Secret, registry string) (authn.Authenticator, error) {
	if data, ok := secret.Data[corev1.DockerConfigJsonKey]; ok {
		return AuthFromDockerConfig(data, registry)
	}

	username := string(secret.Data["username"])
	password := string(secret.Data["password"])
	if username == "" || password == "" {
		return nil, fmt.Errorf("secret %s/%s must contain %s or username/password",
			secret.Namespace, secret.Name, corev1.DockerConfigJsonKey)
	}
	return &authn.Basic{Username: username, Password: password}, nil
}
