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

// Package config types define the configuration structures used throughout
// sirseer-approve. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for sirseer-approve.
type Config struct {
	GitHub   GitHubConfig           `yaml:"github"`
	Defaults DefaultsConfig         `yaml:"defaults"`
	Owners   map[string]OwnerConfig `yaml:"owners"`
}

// GitHubConfig contains GitHub-specific settings including API endpoints
// and authentication configuration. This allows easy configuration for
// GitHub Enterprise deployments by specifying custom endpoints.
type GitHubConfig struct {
	APIEndpoint     string `yaml:"api_endpoint"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`

	// TokenEnv names the environment variable consulted for a token after
	// GH_TOKEN.
	TokenEnv string `yaml:"token_env"`
}

// DefaultsConfig contains the approval settings used unless overridden by
// owner-specific settings or command-line flags.
type DefaultsConfig struct {
	Concurrency int    `yaml:"concurrency"`
	PerPage     int    `yaml:"per_page"`
	Message     string `yaml:"message"`
	RequireAuth bool   `yaml:"require_auth"`

	// EnvFile is a dotenv file merged into the environment at startup.
	EnvFile string `yaml:"env_file"`
}

// OwnerConfig overrides defaults for queries scoped to one user or
// organization. Some organizations run CI that misbehaves when many pull
// requests are approved at once.
type OwnerConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// DefaultConfig returns a Config with defaults for github.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint:     "https://api.github.com",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			Concurrency: 8,
			PerPage:     50,
			EnvFile:     ".env",
		},
		Owners: make(map[string]OwnerConfig),
	}
}
