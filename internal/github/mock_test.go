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
	"errors"
	"testing"

	apperrors "github.com/sirseerhq/sirseer-approve/internal/errors"
	"github.com/sirseerhq/sirseer-approve/internal/giterror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockPRs(n int) []PullRequestDetail {
	prs := make([]PullRequestDetail, n)
	for i := range prs {
		prs[i] = PullRequestDetail{
			Ref:       PullRequestRef{Owner: "acme", Repo: "widgets", Number: i + 1},
			State:     StateOpen,
			Mergeable: true,
		}
	}
	return prs
}

func TestMockClient_Pagination(t *testing.T) {
	mock := NewMockClientWithOptions(WithPullRequests(2, mockPRs(5)...))
	ctx := context.Background()

	var numbers []int
	page := 1
	for page != 0 {
		result, err := mock.SearchIssues(ctx, "is:pr", SearchOptions{Page: page})
		require.NoError(t, err)
		assert.Equal(t, 5, result.TotalCount)
		for _, m := range result.Matches {
			numbers = append(numbers, m.Number)
		}
		page = result.NextPage
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, numbers)
	assert.Equal(t, 3, mock.SearchCalls)
}

func TestMockClient_EmptySearch(t *testing.T) {
	mock := NewMockClient()

	page, err := mock.SearchIssues(context.Background(), "is:pr", SearchOptions{})
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
	assert.Empty(t, page.Matches)
	assert.Zero(t, page.NextPage)
}

func TestMockClient_SearchErrorAtPage(t *testing.T) {
	boom := errors.New("boom")
	mock := NewMockClientWithOptions(
		WithPullRequests(1, mockPRs(3)...),
		WithSearchError(boom, 2),
	)
	ctx := context.Background()

	_, err := mock.SearchIssues(ctx, "is:pr", SearchOptions{Page: 1})
	require.NoError(t, err)

	_, err = mock.SearchIssues(ctx, "is:pr", SearchOptions{Page: 2})
	assert.ErrorIs(t, err, boom)
}

func TestMockClient_AuthFailure(t *testing.T) {
	mock := NewMockClientWithOptions(WithAuthFailure())

	_, err := mock.SearchIssues(context.Background(), "is:pr", SearchOptions{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = mock.CountIssues(context.Background(), "is:pr status:success")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestMockClient_StatusCounts(t *testing.T) {
	mock := NewMockClientWithOptions(WithStatusCounts("is:pr", map[string]int{"success": 3}))

	n, err := mock.CountIssues(context.Background(), "is:pr status:success")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = mock.CountIssues(context.Background(), "is:pr status:failure")
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, []string{"is:pr status:success", "is:pr status:failure"}, mock.CountQueries)
}

func TestMockClient_ReviewFlow(t *testing.T) {
	prs := mockPRs(1)
	mock := NewMockClientWithOptions(WithPullRequests(10, prs...))
	ctx := context.Background()

	detail, err := mock.GetPullRequest(ctx, PullRequestAPIURL(prs[0].Ref))
	require.NoError(t, err)
	assert.Equal(t, prs[0].Ref, detail.Ref)

	id, err := mock.CreateReview(ctx, detail.Ref, "ship it")
	require.NoError(t, err)
	require.NoError(t, mock.SubmitReview(ctx, detail.Ref, id, ReviewApprove))

	created, submitted := mock.Snapshot()
	assert.Equal(t, []PullRequestRef{detail.Ref}, created)
	assert.Equal(t, []PullRequestRef{detail.Ref}, submitted)
	assert.Equal(t, []string{"ship it"}, mock.ReviewBodies)
	assert.Equal(t, []ReviewEvent{ReviewApprove}, mock.SubmittedEvents)
}

func TestMockClient_UnknownPullRequest(t *testing.T) {
	mock := NewMockClient()

	_, err := mock.GetPullRequest(context.Background(), "https://api.github.com/repos/a/b/pulls/1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPendingReviewError(t *testing.T) {
	ref := PullRequestRef{Owner: "acme", Repo: "widgets", Number: 3}
	err := PendingReviewError(ref)

	assert.True(t, giterror.NewInspector().IsPendingReviewConflict(err))
	assert.Contains(t, err.Error(), "422")
}
