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
	"net/url"
	"sync"

	"github.com/google/go-github/v68/github"
	apperrors "github.com/sirseerhq/sirseer-approve/internal/errors"
	"github.com/sirseerhq/sirseer-approve/internal/giterror"
)

// MockClient is a mock implementation of the GitHub Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Pages served by SearchIssues, in order. Page N of the API maps to Pages[N-1].
	Pages []SearchPage

	// PullRequests keyed by API URL.
	PullRequests map[string]*PullRequestDetail

	// StatusCounts keyed by the full count query.
	StatusCounts map[string]int

	// Error injection
	SearchError       error
	SearchErrorAtPage int // 1-based page that fails with SearchError; 0 fails every page
	CountError        error
	FetchErrors       map[string]error // keyed by API URL
	CreateErrors      map[string]error // keyed by PullRequestRef.String()
	SubmitErrors      map[string]error // keyed by PullRequestRef.String()

	// OnSubmitReview runs before a review submission is recorded.
	OnSubmitReview func(ref PullRequestRef)

	// Track calls for verification
	SearchCalls      int
	CountQueries     []string
	FetchedURLs      []string
	CreatedReviews   []PullRequestRef
	ReviewBodies     []string
	SubmittedReviews []PullRequestRef
	SubmittedEvents  []ReviewEvent

	nextReviewID int64
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates an empty mock client: every search matches nothing.
func NewMockClient() *MockClient {
	return &MockClient{
		PullRequests: make(map[string]*PullRequestDetail),
		StatusCounts: make(map[string]int),
		FetchErrors:  make(map[string]error),
		CreateErrors: make(map[string]error),
		SubmitErrors: make(map[string]error),
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithPullRequests makes every search return prs, split into pages of perPage.
func WithPullRequests(perPage int, prs ...PullRequestDetail) MockClientOption {
	return func(m *MockClient) {
		m.Pages = nil
		matches := make([]SearchMatch, 0, len(prs))
		for i := range prs {
			pr := prs[i]
			apiURL := PullRequestAPIURL(pr.Ref)
			m.PullRequests[apiURL] = &pr
			matches = append(matches, SearchMatch{
				Number:         pr.Ref.Number,
				Title:          pr.Title,
				State:          pr.State,
				HTMLURL:        pr.HTMLURL,
				PullRequestURL: apiURL,
			})
		}
		m.Pages = paginate(matches, perPage)
	}
}

// WithStatusCounts sets the counts returned for "<base> status:<status>".
func WithStatusCounts(base string, counts map[string]int) MockClientOption {
	return func(m *MockClient) {
		for status, n := range counts {
			m.StatusCounts[base+" status:"+status] = n
		}
	}
}

// WithSearchError makes the search fail with err on the given 1-based page,
// or on every page when page is zero.
func WithSearchError(err error, page int) MockClientOption {
	return func(m *MockClient) {
		m.SearchError = err
		m.SearchErrorAtPage = page
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.SearchError = fmt.Errorf("authentication failed: %w", apperrors.ErrInvalidToken)
		m.CountError = m.SearchError
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}

// SearchIssues implements the Searcher interface
func (m *MockClient) SearchIssues(ctx context.Context, query string, opts SearchOptions) (*SearchPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchCalls++

	pageNum := opts.Page
	if pageNum <= 0 {
		pageNum = 1
	}

	if m.SearchError != nil && (m.SearchErrorAtPage == 0 || m.SearchErrorAtPage == pageNum) {
		return nil, m.SearchError
	}

	total := 0
	for _, p := range m.Pages {
		total += len(p.Matches)
	}

	page := &SearchPage{TotalCount: total}
	if pageNum <= len(m.Pages) {
		page.Matches = append([]SearchMatch(nil), m.Pages[pageNum-1].Matches...)
	}
	if pageNum < len(m.Pages) {
		page.NextPage = pageNum + 1
	}
	return page, nil
}

// CountIssues implements the Counter interface
func (m *MockClient) CountIssues(ctx context.Context, query string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.CountQueries = append(m.CountQueries, query)

	if m.CountError != nil {
		return 0, m.CountError
	}
	return m.StatusCounts[query], nil
}

// GetPullRequest implements the Reviewer interface
func (m *MockClient) GetPullRequest(ctx context.Context, apiURL string) (*PullRequestDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchedURLs = append(m.FetchedURLs, apiURL)

	if err := m.FetchErrors[apiURL]; err != nil {
		return nil, err
	}
	pr, ok := m.PullRequests[apiURL]
	if !ok {
		return nil, fmt.Errorf("pull request %s: %w", apiURL, apperrors.ErrNotFound)
	}
	detail := *pr
	return &detail, nil
}

// CreateReview implements the Reviewer interface
func (m *MockClient) CreateReview(ctx context.Context, ref PullRequestRef, body string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.CreateErrors[ref.String()]; err != nil {
		return 0, err
	}
	m.CreatedReviews = append(m.CreatedReviews, ref)
	m.ReviewBodies = append(m.ReviewBodies, body)
	m.nextReviewID++
	return m.nextReviewID, nil
}

// SubmitReview implements the Reviewer interface. OnSubmitReview runs
// without the lock held so hooks may block.
func (m *MockClient) SubmitReview(ctx context.Context, ref PullRequestRef, reviewID int64, event ReviewEvent) error {
	m.mu.Lock()
	hook := m.OnSubmitReview
	m.mu.Unlock()

	if hook != nil {
		hook(ref)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.SubmitErrors[ref.String()]; err != nil {
		return err
	}
	m.SubmittedReviews = append(m.SubmittedReviews, ref)
	m.SubmittedEvents = append(m.SubmittedEvents, event)
	return nil
}

// Snapshot returns copies of the tracked review calls.
func (m *MockClient) Snapshot() (created, submitted []PullRequestRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PullRequestRef(nil), m.CreatedReviews...), append([]PullRequestRef(nil), m.SubmittedReviews...)
}

// PullRequestAPIURL returns the api.github.com URL of a pull request.
func PullRequestAPIURL(ref PullRequestRef) string {
	return fmt.Sprintf("https://api.github.com/repos/%s/%s/pulls/%d", ref.Owner, ref.Repo, ref.Number)
}

// PendingReviewError returns the error GitHub responds with when the actor
// already has a pending review on ref.
func PendingReviewError(ref PullRequestRef) error {
	u, _ := url.Parse(PullRequestAPIURL(ref) + "/reviews")
	return &github.ErrorResponse{
		Response: &http.Response{
			StatusCode: http.StatusUnprocessableEntity,
			Request:    &http.Request{Method: http.MethodPost, URL: u},
		},
		Message: "Unprocessable Entity",
		Errors:  []github.Error{{Message: giterror.PendingReviewMessage}},
	}
}

// paginate splits matches into pages of perPage. An empty result is a single
// empty page, as the search API returns.
func paginate(matches []SearchMatch, perPage int) []SearchPage {
	if perPage <= 0 {
		perPage = defaultPageSize
	}
	pages := []SearchPage{{}}
	for i, match := range matches {
		if i > 0 && i%perPage == 0 {
			pages = append(pages, SearchPage{})
		}
		last := &pages[len(pages)-1]
		last.Matches = append(last.Matches, match)
	}
	return pages
}
