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

package github

import (
	"context"
	"net/http"
	"time"
)

// Default endpoints for github.com.
const (
	DefaultAPIEndpoint     = "https://api.github.com/"
	DefaultGraphQLEndpoint = "https://api.github.com/graphql"
)

// Options configures NewClient.
type Options struct {
	// Token authenticates every request. Empty means anonymous access,
	// which disables the GraphQL counter.
	Token string

	// APIEndpoint and GraphQLEndpoint default to github.com.
	APIEndpoint     string
	GraphQLEndpoint string

	// Transport is the base round tripper. Defaults to a pooled transport.
	Transport http.RoundTripper

	// RetryBackoff is the initial delay between retries of idempotent
	// requests. Defaults to one second.
	RetryBackoff time.Duration
}

// APIClient is the production Client: REST for search and reviews, GraphQL
// for counts when authenticated.
type APIClient struct {
	*RESTClient
	counter Counter
}

var _ Client = (*APIClient)(nil)

// NewClient creates a GitHub client from opts.
func NewClient(opts Options) (*APIClient, error) {
	httpClient := newHTTPClient(opts.Token, opts.Transport, opts.RetryBackoff)

	rest, err := NewRESTClient(httpClient, opts.APIEndpoint)
	if err != nil {
		return nil, err
	}

	c := &APIClient{RESTClient: rest, counter: rest}
	if opts.Token != "" {
		endpoint := opts.GraphQLEndpoint
		if endpoint == "" {
			endpoint = DefaultGraphQLEndpoint
		}
		c.counter = NewGraphQLClient(endpoint, httpClient)
	}
	return c, nil
}

// CountIssues counts matches through GraphQL when authenticated, REST otherwise.
func (c *APIClient) CountIssues(ctx context.Context, query string) (int, error) {
	return c.counter.CountIssues(ctx, query)
}
