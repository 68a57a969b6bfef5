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

import "context"

// Searcher fetches one page of issue search results.
type Searcher interface {
	// SearchIssues runs query against the issue/PR search index and returns
	// the requested page. SearchPage.NextPage is zero on the last page.
	SearchIssues(ctx context.Context, query string, opts SearchOptions) (*SearchPage, error)
}

// Counter reports the number of search matches without fetching them.
type Counter interface {
	CountIssues(ctx context.Context, query string) (int, error)
}

// Reviewer is the part of the API used to approve a single pull request.
type Reviewer interface {
	// GetPullRequest retrieves pull request details from its API URL, as
	// found in SearchMatch.PullRequestURL.
	GetPullRequest(ctx context.Context, url string) (*PullRequestDetail, error)

	// CreateReview creates a pending review, optionally carrying body, and
	// returns its identifier.
	CreateReview(ctx context.Context, ref PullRequestRef, body string) (int64, error)

	// SubmitReview submits a pending review with the given event.
	SubmitReview(ctx context.Context, ref PullRequestRef, reviewID int64, event ReviewEvent) error
}

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
type Client interface {
	Searcher
	Counter
	Reviewer
}
