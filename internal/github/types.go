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

import "fmt"

// SearchMatch is one item of an issue search result page.
type SearchMatch struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`

	// PullRequestURL is the API URL of the pull request. It is empty when
	// the match is a plain issue.
	PullRequestURL string `json:"pull_request_url,omitempty"`
}

// SearchPage is a page of search matches. TotalCount is the size of the
// whole result set as reported by the search index.
type SearchPage struct {
	TotalCount        int
	IncompleteResults bool
	Matches           []SearchMatch
	NextPage          int
}

// SearchOptions configures how a search page is fetched.
type SearchOptions struct {
	// Page is the 1-based page number. Zero fetches the first page.
	Page int

	// PerPage controls how many matches to fetch per page.
	// Defaults to 50 if not specified. Maximum is 100 per GitHub's API limits.
	PerPage int
}

// Default values for search operations
const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// PullRequestRef identifies a pull request within a repository.
type PullRequestRef struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`
}

// String returns the short owner/repo#number form.
func (r PullRequestRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// PullRequestDetail is the subset of pull request data the approval
// workflow acts on.
type PullRequestDetail struct {
	Ref       PullRequestRef
	Title     string
	HTMLURL   string
	State     string
	Mergeable bool
}

// Pull request lifecycle states.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// ReviewEvent is the disposition a review is submitted with.
type ReviewEvent string

// Review dispositions accepted by the API.
const (
	ReviewApprove        ReviewEvent = "APPROVE"
	ReviewRequestChanges ReviewEvent = "REQUEST_CHANGES"
	ReviewComment        ReviewEvent = "COMMENT"
)
