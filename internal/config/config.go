// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for sirseer-approve with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables, including those from a .env file
//  3. Owner-specific configuration
//  4. Configuration file
//  5. Built-in defaults
//
// Tokens are resolved separately by Config.Token.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/sirseerhq/sirseer-approve/internal/errors"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .sirseer-approve.yaml (current directory)
//   - .sirseer-approve.yml (current directory)
//   - ~/.sirseer/approve.yaml
//   - ~/.sirseer/approve.yml
//
// The configured env file is merged into the environment before environment
// overrides are applied. Returns an error wrapping ErrInvalidConfig if a
// config or env file cannot be parsed; a missing file in a standard location
// is not an error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		home := os.Getenv("HOME")
		defaultPaths := []string{
			".sirseer-approve.yaml",
			".sirseer-approve.yml",
			filepath.Join(home, ".sirseer", "approve.yaml"),
			filepath.Join(home, ".sirseer", "approve.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if cfg.Defaults.EnvFile != "" {
		if err := LoadEnvFile(expandPath(cfg.Defaults.EnvFile)); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w: %w", path, apperrors.ErrInvalidConfig, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	if concurrency := os.Getenv("SIRSEER_CONCURRENCY"); concurrency != "" {
		if n, err := parsePositiveInt(concurrency); err == nil {
			cfg.Defaults.Concurrency = n
		}
	}
	if perPage := os.Getenv("SIRSEER_PER_PAGE"); perPage != "" {
		if n, err := parsePositiveInt(perPage); err == nil {
			cfg.Defaults.PerPage = n
		}
	}
	if requireAuth := os.Getenv("SIRSEER_REQUIRE_AUTH"); requireAuth != "" {
		cfg.Defaults.RequireAuth = parseBool(requireAuth)
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// GetConcurrency returns the effective concurrency for queries scoped to
// owner, taking owner-specific overrides into account. An empty owner
// returns the default.
func (c *Config) GetConcurrency(owner string) int {
	if ownerConfig, ok := c.Owners[owner]; ok && owner != "" && ownerConfig.Concurrency > 0 {
		return ownerConfig.Concurrency
	}
	return c.Defaults.Concurrency
}

// Validate checks if the configuration contains valid values. This should
// be called after loading configuration to catch invalid settings early.
func (c *Config) Validate() error {
	if c.Defaults.Concurrency <= 0 {
		return fmt.Errorf("%w: concurrency must be positive, got: %d", apperrors.ErrInvalidConfig, c.Defaults.Concurrency)
	}
	if c.Defaults.PerPage <= 0 {
		return fmt.Errorf("%w: page size must be positive, got: %d", apperrors.ErrInvalidConfig, c.Defaults.PerPage)
	}
	if c.Defaults.PerPage > 100 {
		return fmt.Errorf("%w: page size %d exceeds GitHub API limit of 100", apperrors.ErrInvalidConfig, c.Defaults.PerPage)
	}
	for owner, oc := range c.Owners {
		if oc.Concurrency < 0 {
			return fmt.Errorf("%w: concurrency for %s must not be negative, got: %d", apperrors.ErrInvalidConfig, owner, oc.Concurrency)
		}
	}
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("%w: GitHub API endpoint cannot be empty", apperrors.ErrInvalidConfig)
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("%w: GitHub GraphQL endpoint cannot be empty", apperrors.ErrInvalidConfig)
	}
	return nil
}
