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
	"strings"

	"github.com/google/go-github/v68/github"
	apperrors "github.com/sirseerhq/sirseer-approve/internal/errors"
	"github.com/sirseerhq/sirseer-approve/internal/giterror"
	"github.com/sirseerhq/sirseer-approve/pkg/version"
)

// searchService is the GitHub Search client.
type searchService interface {
	Issues(ctx context.Context, query string, opts *github.SearchOptions) (*github.IssuesSearchResult, *github.Response, error)
}

var _ searchService = (*github.SearchService)(nil)

// pullRequestsService is the GitHub PullRequests client.
type pullRequestsService interface {
	CreateReview(
		ctx context.Context, owner, repo string, number int,
		review *github.PullRequestReviewRequest,
	) (*github.PullRequestReview, *github.Response, error)

	SubmitReview(
		ctx context.Context, owner, repo string, number int, reviewID int64,
		review *github.PullRequestReviewRequest,
	) (*github.PullRequestReview, *github.Response, error)
}

var _ pullRequestsService = (*github.PullRequestsService)(nil)

// RESTClient implements the GitHub Client interface on top of the REST API.
type RESTClient struct {
	client    *github.Client
	search    searchService
	pulls     pullRequestsService
	inspector giterror.Inspector
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient creates a REST client sending requests through httpClient.
// An empty endpoint keeps the public api.github.com base URL.
func NewRESTClient(httpClient *http.Client, endpoint string) (*RESTClient, error) {
	client := github.NewClient(httpClient)
	client.UserAgent = version.UserAgent()

	if endpoint != "" {
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		baseURL, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API endpoint %q: %w", endpoint, err)
		}
		client.BaseURL = baseURL
	}

	return &RESTClient{
		client:    client,
		search:    client.Search,
		pulls:     client.PullRequests,
		inspector: giterror.NewInspector(),
	}, nil
}

// GetPullRequest retrieves a pull request by its API URL.
func (c *RESTClient) GetPullRequest(ctx context.Context, apiURL string) (*PullRequestDetail, error) {
	req, err := c.client.NewRequest(http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", apiURL, err)
	}

	pull := new(github.PullRequest)
	if _, err := c.client.Do(ctx, req, pull); err != nil {
		return nil, mapError(c.inspector, err, "failed to fetch pull request "+apiURL)
	}

	repo := pull.GetBase().GetRepo()
	return &PullRequestDetail{
		Ref: PullRequestRef{
			Owner:  repo.GetOwner().GetLogin(),
			Repo:   repo.GetName(),
			Number: pull.GetNumber(),
		},
		Title:     pull.GetTitle(),
		HTMLURL:   pull.GetHTMLURL(),
		State:     pull.GetState(),
		Mergeable: pull.GetMergeable(),
	}, nil
}

// CreateReview creates a pending review on the pull request.
func (c *RESTClient) CreateReview(ctx context.Context, ref PullRequestRef, body string) (int64, error) {
	req := &github.PullRequestReviewRequest{}
	if body != "" {
		req.Body = github.Ptr(body)
	}

	review, _, err := c.pulls.CreateReview(ctx, ref.Owner, ref.Repo, ref.Number, req)
	if err != nil {
		return 0, mapError(c.inspector, err, "failed to create review for "+ref.String())
	}
	return review.GetID(), nil
}

// SubmitReview submits a pending review with the given event.
func (c *RESTClient) SubmitReview(ctx context.Context, ref PullRequestRef, reviewID int64, event ReviewEvent) error {
	_, _, err := c.pulls.SubmitReview(ctx, ref.Owner, ref.Repo, ref.Number, reviewID,
		&github.PullRequestReviewRequest{Event: github.Ptr(string(event))})
	if err != nil {
		return mapError(c.inspector, err, fmt.Sprintf("failed to submit review %d for %s", reviewID, ref))
	}
	return nil
}

// mapError maps API errors to our domain errors with actionable messages.
// The original error stays in the chain so callers can still inspect the
// structured go-github error.
func mapError(inspector giterror.Inspector, err error, action string) error {
	if err == nil {
		return nil
	}

	// Expected per-item condition; callers classify it themselves.
	if inspector.IsPendingReviewConflict(err) {
		return fmt.Errorf("%s: %w", action, err)
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	if inspector.IsRateLimitError(err) {
		return fmt.Errorf("%s: GitHub API rate limit exceeded. Please wait before retrying: %w: %w", action, apperrors.ErrRateLimit, err)
	}

	if inspector.IsAuthError(err) {
		return fmt.Errorf("%s: GitHub API authentication failed. Please provide a valid token via --token flag or GH_TOKEN/GITHUB_TOKEN environment variable: %w: %w", action, apperrors.ErrInvalidToken, err)
	}

	if inspector.IsNotFoundError(err) {
		return fmt.Errorf("%s: not found or not accessible with the current credentials: %w: %w", action, apperrors.ErrNotFound, err)
	}

	if inspector.IsNetworkError(err) {
		return fmt.Errorf("%s: network error connecting to GitHub API. Please check your internet connection and try again: %w: %w", action, apperrors.ErrNetworkFailure, err)
	}

	return fmt.Errorf("%s: %w", action, err)
}
