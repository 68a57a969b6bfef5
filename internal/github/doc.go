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

// Package github provides the GitHub capabilities the approval engine consumes:
// searching the issue index, counting search matches, fetching pull request
// details by API URL, and creating and submitting reviews.
//
// The package includes:
//   - A Client interface composed of small capability interfaces
//   - A REST implementation built on google/go-github
//   - A GraphQL implementation of count-only searches using shurcooL/graphql
//   - An HTTP transport with token auth, idempotent retries and response size limits
//   - A MockClient for testing
//
// Basic usage:
//
//	client, err := github.NewClient(github.Options{Token: os.Getenv("GITHUB_TOKEN")})
//	if err != nil {
//	    // Handle error
//	}
//	page, err := client.SearchIssues(ctx, "is:pr review:required", github.SearchOptions{PerPage: 50})
//	if err != nil {
//	    // Handle error
//	}
//	for _, match := range page.Matches {
//	    // Process match.PullRequestURL
//	}
package github
