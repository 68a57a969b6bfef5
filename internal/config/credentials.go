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

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	apperrors "github.com/sirseerhq/sirseer-approve/internal/errors"
)

// rcFile is the per-user credentials file, relative to $HOME.
const rcFile = ".githubrc.json"

// LoadEnvFile merges the variables of a dotenv file into the environment.
// Variables already set in the environment win. A missing file is ignored.
func LoadEnvFile(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to parse env file %s: %w: %w", path, apperrors.ErrInvalidConfig, err)
	}

	for k, v := range vars {
		if _, exists := os.LookupEnv(k); !exists {
			if err := os.Setenv(k, v); err != nil {
				return fmt.Errorf("failed to set %s from %s: %w", k, path, err)
			}
		}
	}
	return nil
}

// Token resolves the GitHub token. Sources are consulted in order:
//  1. flagToken
//  2. GH_TOKEN
//  3. the variable named by GitHub.TokenEnv (GITHUB_TOKEN by default)
//  4. the github_token field of ~/.githubrc.json
//
// An empty token means anonymous access. When requireAuth is set, a missing
// token is an error wrapping ErrMissingToken.
func (c *Config) Token(flagToken string, requireAuth bool) (string, error) {
	token, err := c.lookupToken(flagToken)
	if err != nil {
		return "", err
	}
	if token == "" && requireAuth {
		return "", fmt.Errorf("%w: pass --token or set GH_TOKEN or %s", apperrors.ErrMissingToken, c.tokenEnv())
	}
	return token, nil
}

func (c *Config) lookupToken(flagToken string) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token, nil
	}
	if token := os.Getenv(c.tokenEnv()); token != "" {
		return token, nil
	}
	return readRCToken(os.Getenv("HOME"))
}

func (c *Config) tokenEnv() string {
	if c.GitHub.TokenEnv == "" {
		return "GITHUB_TOKEN"
	}
	return c.GitHub.TokenEnv
}

// readRCToken reads github_token from home/.githubrc.json. A missing home
// directory or file yields no token.
func readRCToken(home string) (string, error) {
	if home == "" {
		return "", nil
	}

	data, err := os.ReadFile(filepath.Join(home, rcFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read ~/%s: %w", rcFile, err)
	}

	var rc struct {
		GitHubToken string `json:"github_token"`
	}
	if err := json.Unmarshal(data, &rc); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return "", fmt.Errorf("unable to parse ~/%s - invalid JSON syntax: %w", rcFile, apperrors.ErrInvalidConfig)
		}
		return "", fmt.Errorf("unable to parse ~/%s: %w: %w", rcFile, apperrors.ErrInvalidConfig, err)
	}
	return rc.GitHubToken, nil
}
