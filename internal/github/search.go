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

	"github.com/google/go-github/v68/github"
)

// SearchIssues fetches one page of issue search results.
func (c *RESTClient) SearchIssues(ctx context.Context, query string, opts SearchOptions) (*SearchPage, error) {
	result, resp, err := c.search.Issues(ctx, query, &github.SearchOptions{
		ListOptions: github.ListOptions{
			Page:    opts.Page,
			PerPage: pageSize(opts.PerPage),
		},
	})
	if err != nil {
		return nil, mapError(c.inspector, err, fmt.Sprintf("failed to search for %q", query))
	}

	page := &SearchPage{
		TotalCount:        result.GetTotal(),
		IncompleteResults: result.GetIncompleteResults(),
		Matches:           make([]SearchMatch, 0, len(result.Issues)),
	}
	if resp != nil {
		page.NextPage = resp.NextPage
	}

	for _, issue := range result.Issues {
		page.Matches = append(page.Matches, SearchMatch{
			Number:         issue.GetNumber(),
			Title:          issue.GetTitle(),
			State:          issue.GetState(),
			HTMLURL:        issue.GetHTMLURL(),
			PullRequestURL: issue.GetPullRequestLinks().GetURL(),
		})
	}

	return page, nil
}

// CountIssues reports the number of matches for query using a single-item
// search page. Used when GraphQL is unavailable, such as for anonymous access.
func (c *RESTClient) CountIssues(ctx context.Context, query string) (int, error) {
	result, _, err := c.search.Issues(ctx, query, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return 0, mapError(c.inspector, err, fmt.Sprintf("failed to count matches for %q", query))
	}
	return result.GetTotal(), nil
}

// pageSize clamps a requested page size to the API limits.
func pageSize(n int) int {
	switch {
	case n <= 0:
		return defaultPageSize
	case n > maxPageSize:
		return maxPageSize
	default:
		return n
	}
}
