// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Console E2E Authors

// Package config loads the read-only run configuration of the suite:
// console credentials, kubeconfig location, timeouts and browser knobs.
//
// Values come from an optional YAML file (E2E_CONFIG) and are then
// overridden by environment variables, so CI can inject secrets without
// touching the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sigs.k8s.io/yaml"
)

// Environment variable names.
const (
	EnvConfigFile        = "E2E_CONFIG"
	EnvLoginIDP          = "LOGIN_IDP"
	EnvLoginUsername     = "LOGIN_USERNAME"
	EnvLoginPassword     = "LOGIN_PASSWORD"
	EnvKubeconfigPath    = "KUBECONFIG_PATH"
	EnvBaseURL           = "BASE_URL"
	EnvCommandTimeout    = "E2E_COMMAND_TIMEOUT"
	EnvPageLoadTimeout   = "E2E_PAGE_LOAD_TIMEOUT"
	EnvExecTimeout       = "E2E_EXEC_TIMEOUT"
	EnvPollInterval      = "E2E_POLL_INTERVAL"
	EnvHeadless          = "E2E_HEADLESS"
	EnvChromePath        = "E2E_CHROME_PATH"
	EnvFixturesDir       = "E2E_FIXTURES_DIR"
	EnvOCBinary          = "E2E_OC_BIN"
	EnvCatalogSource     = "NOO_CATALOG_SRC"
	EnvIgnoredExceptions = "E2E_IGNORED_EXCEPTIONS"
)

// Defaults.
const (
	DefaultCommandTimeout  = 40 * time.Second
	DefaultPageLoadTimeout = 2 * time.Minute
	DefaultExecTimeout     = 60 * time.Second
	DefaultPollInterval    = 500 * time.Millisecond
	DefaultOCBinary        = "oc"
	DefaultFixturesDir     = "fixtures"
)

// DefaultIgnoredExceptions lists uncaught console exceptions that must not
// fail a spec. Tracked upstream as NETOBSERV-1450.
var DefaultIgnoredExceptions = []string{
	"different versions of MobX active",
}

var (
	// ErrMissingBaseURL indicates no console URL was configured
	ErrMissingBaseURL = errors.New("console base URL is required")
	// ErrMissingCredentials indicates login credentials are incomplete
	ErrMissingCredentials = errors.New("login username and password are required")
	// ErrMissingKubeconfig indicates no kubeconfig path was configured
	ErrMissingKubeconfig = errors.New("kubeconfig path is required")
	// ErrInvalidTimeout indicates a malformed or non-positive timeout value
	ErrInvalidTimeout = errors.New("timeouts must be positive durations")
	// ErrInvalidBool indicates a boolean setting that strconv cannot parse
	ErrInvalidBool = errors.New("invalid boolean")
)

// Config is the run configuration. It is never mutated after Load.
type Config struct {
	LoginIDP      string `json:"loginIDP,omitempty"`
	LoginUsername string `json:"loginUsername,omitempty"`
	LoginPassword string `json:"loginPassword,omitempty"`

	KubeconfigPath string `json:"kubeconfigPath,omitempty"`
	BaseURL        string `json:"baseURL,omitempty"`

	CommandTimeout  Duration `json:"commandTimeout,omitempty"`
	PageLoadTimeout Duration `json:"pageLoadTimeout,omitempty"`
	ExecTimeout     Duration `json:"execTimeout,omitempty"`
	PollInterval    Duration `json:"pollInterval,omitempty"`

	Headless   bool   `json:"headless"`
	ChromePath string `json:"chromePath,omitempty"`

	FixturesDir string `json:"fixturesDir,omitempty"`
	OCBinary    string `json:"ocBinary,omitempty"`

	// CatalogSource selects where the network observability operator is
	// installed from: "upstream" builds a custom catalog, anything else
	// uses the QE catalog source.
	CatalogSource string `json:"catalogSource,omitempty"`

	IgnoredExceptions []string `json:"ignoredExceptions,omitempty"`
}

// Duration is a time.Duration that reads "40s"-style strings from YAML.
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// Default returns a configuration with all defaults applied.
func Default() Config {
	return Config{
		CommandTimeout:    Duration{DefaultCommandTimeout},
		PageLoadTimeout:   Duration{DefaultPageLoadTimeout},
		ExecTimeout:       Duration{DefaultExecTimeout},
		PollInterval:      Duration{DefaultPollInterval},
		Headless:          true,
		FixturesDir:       DefaultFixturesDir,
		OCBinary:          DefaultOCBinary,
		IgnoredExceptions: append([]string(nil), DefaultIgnoredExceptions...),
	}
}

// Load builds the configuration from E2E_CONFIG (if set) and the environment.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a YAML file on top of the defaults without consulting the
// environment.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

// mergeEnv overrides c with the environment. A malformed duration or boolean
// is an error rather than a silent fallback to the default.
func (c *Config) mergeEnv(lookup lookupFunc) error {
	setString(lookup, EnvLoginIDP, &c.LoginIDP)
	setString(lookup, EnvLoginUsername, &c.LoginUsername)
	setString(lookup, EnvLoginPassword, &c.LoginPassword)
	setString(lookup, EnvKubeconfigPath, &c.KubeconfigPath)
	setString(lookup, EnvBaseURL, &c.BaseURL)
	setString(lookup, EnvChromePath, &c.ChromePath)
	setString(lookup, EnvFixturesDir, &c.FixturesDir)
	setString(lookup, EnvOCBinary, &c.OCBinary)
	setString(lookup, EnvCatalogSource, &c.CatalogSource)

	for key, dst := range map[string]*Duration{
		EnvCommandTimeout:  &c.CommandTimeout,
		EnvPageLoadTimeout: &c.PageLoadTimeout,
		EnvExecTimeout:     &c.ExecTimeout,
		EnvPollInterval:    &c.PollInterval,
	} {
		if err := setDuration(lookup, key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(EnvHeadless); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvHeadless, v, ErrInvalidBool)
		}
		c.Headless = b
	}
	if v, ok := lookup(EnvIgnoredExceptions); ok {
		c.IgnoredExceptions = splitList(v)
	}
	if c.KubeconfigPath == "" {
		if v, ok := lookup("KUBECONFIG"); ok {
			c.KubeconfigPath = v
		}
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	return nil
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.LoginUsername == "" || c.LoginPassword == "" {
		return ErrMissingCredentials
	}
	if c.KubeconfigPath == "" {
		return ErrMissingKubeconfig
	}
	for _, d := range []Duration{c.CommandTimeout, c.PageLoadTimeout, c.ExecTimeout, c.PollInterval} {
		if d.Duration <= 0 {
			return ErrInvalidTimeout
		}
	}
	return nil
}

// UpstreamCatalog reports whether the operator under test comes from the
// upstream main-branch catalog image.
func (c Config) UpstreamCatalog() bool {
	return c.CatalogSource == "upstream"
}

func setString(lookup lookupFunc, key string, dst *string) {
	if v, ok := lookup(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(lookup lookupFunc, key string, dst *Duration) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s=%q: %w", key, v, ErrInvalidTimeout)
	}
	dst.Duration = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
