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
	"fmt"
	"net/http"

	"github.com/shurcooL/graphql"
	"github.com/sirseerhq/sirseer-approve/internal/giterror"
)

// GraphQLClient answers count-only searches through GitHub's GraphQL API,
// which returns the match count without transferring any result items.
// GitHub's GraphQL API requires authentication.
type GraphQLClient struct {
	client    *graphql.Client
	inspector giterror.Inspector
}

var _ Counter = (*GraphQLClient)(nil)

// NewGraphQLClient creates a GraphQL client for the given endpoint. Requests
// go through httpClient, which is expected to carry authentication.
func NewGraphQLClient(endpoint string, httpClient *http.Client) *GraphQLClient {
	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		inspector: giterror.NewInspector(),
	}
}

// CountIssues returns the number of issues and pull requests matching query.
func (c *GraphQLClient) CountIssues(ctx context.Context, query string) (int, error) {
	var q struct {
		Search struct {
			IssueCount graphql.Int
		} `graphql:"search(query: $query, type: ISSUE, first: 1)"`
	}

	variables := map[string]interface{}{
		"query": graphql.String(query),
	}

	if err := c.client.Query(ctx, &q, variables); err != nil {
		return 0, mapError(c.inspector, err, fmt.Sprintf("failed to count matches for %q", query))
	}

	return int(q.Search.IssueCount), nil
}
