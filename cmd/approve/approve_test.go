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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/sirseerhq/sirseer-approve/internal/errors"
	"github.com/sirseerhq/sirseer-approve/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultQuery = "state:open is:pr archived:false"

// harness runs the CLI against a mock client and a scripted prompt.
type harness struct {
	mock      *github.MockClient
	opts      github.Options
	answer    bool
	promptErr error
	prompts   []string
	stdout    bytes.Buffer
	stderr    bytes.Buffer
	wd        string
}

func newHarness(t *testing.T, mock *github.MockClient) *harness {
	t.Helper()
	wd := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(wd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
	for _, key := range []string{
		"GH_TOKEN", "GITHUB_TOKEN", "GITHUB_API_ENDPOINT", "GITHUB_GRAPHQL_ENDPOINT",
		"SIRSEER_CONCURRENCY", "SIRSEER_PER_PAGE", "SIRSEER_REQUIRE_AUTH",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return &harness{mock: mock, wd: wd}
}

func (h *harness) run(args ...string) error {
	a := &app{
		newClient: func(opts github.Options) (github.Client, error) {
			h.opts = opts
			return h.mock, nil
		},
		confirm: func(title string) (bool, error) {
			h.prompts = append(h.prompts, title)
			return h.answer, h.promptErr
		},
	}

	cmd := a.rootCommand()
	cmd.SetOut(&h.stdout)
	cmd.SetErr(&h.stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func openPRs(n int) []github.PullRequestDetail {
	prs := make([]github.PullRequestDetail, n)
	for i := range prs {
		prs[i] = github.PullRequestDetail{
			Ref:       github.PullRequestRef{Owner: "acme", Repo: "widgets", Number: i + 1},
			State:     github.StateOpen,
			Mergeable: true,
		}
	}
	return prs
}

func TestApprove_AssumeYes(t *testing.T) {
	h := newHarness(t, github.NewMockClientWithOptions(github.WithPullRequests(10, openPRs(3)...)))

	require.NoError(t, h.run("approve", "-y", "lodash"))

	assert.Empty(t, h.prompts)
	assert.Empty(t, h.mock.CountQueries, "no counts are needed with --assumeyes")
	_, submitted := h.mock.Snapshot()
	assert.Len(t, submitted, 3)
	assert.Contains(t, h.stderr.String(), "approved 3 PRs")
	assert.Empty(t, h.opts.Token)
}

func TestApprove_NoMatches(t *testing.T) {
	h := newHarness(t, github.NewMockClient())

	require.NoError(t, h.run("approve"))

	assert.Contains(t, h.stderr.String(), "no PRs matched the given search")
	assert.Empty(t, h.prompts)
	assert.Empty(t, h.mock.FetchedURLs)
}

func TestApprove_Declined(t *testing.T) {
	h := newHarness(t, github.NewMockClientWithOptions(github.WithPullRequests(10, openPRs(2)...)))

	require.NoError(t, h.run("approve"))

	assert.Equal(t, []string{"approve 2 PRs?"}, h.prompts)
	assert.Contains(t, h.stderr.String(),
		"see search at https://github.com/pulls?q=state%3Aopen%20is%3Apr%20archived%3Afalse")
	created, _ := h.mock.Snapshot()
	assert.Empty(t, created)
}

func TestApprove_ConfirmedWithBreakdown(t *testing.T) {
	h := newHarness(t, github.NewMockClientWithOptions(
		github.WithPullRequests(10, openPRs(3)...),
		github.WithStatusCounts(defaultQuery, map[string]int{"success": 2}),
	))
	h.answer = true

	require.NoError(t, h.run("approve"))

	out := h.stderr.String()
	assert.Contains(t, out, "commit status breakdown:")
	assert.Contains(t, out, "  [success] 2\n")
	assert.Contains(t, out, "  [unknown] 1\n")
	assert.NotContains(t, out, "[pending]")
	assert.NotContains(t, out, "limit commit statuses")
	assert.Contains(t, out, "approved 3 PRs")
	assert.Equal(t, 1, h.mock.SearchCalls, "the counted page is reused for approval")
}

func TestApprove_SuggestsStatusQualifier(t *testing.T) {
	h := newHarness(t, github.NewMockClientWithOptions(
		github.WithPullRequests(10, openPRs(3)...),
		github.WithStatusCounts(defaultQuery, map[string]int{"success": 2, "failure": 1}),
	))

	require.NoError(t, h.run("approve"))

	assert.Contains(t, h.stderr.String(), "limit commit statuses with the `status:` qualifier")
	assert.NotContains(t, h.stderr.String(), "[unknown]")
}

func TestApprove_StatusQueryHasNoBreakdown(t *testing.T) {
	h := newHarness(t, github.NewMockClientWithOptions(github.WithPullRequests(10, openPRs(1)...)))

	require.NoError(t, h.run("approve", "status:success"))

	assert.NotContains(t, h.stderr.String(), "commit status breakdown")
	assert.Empty(t, h.mock.CountQueries)
	assert.Equal(t, []string{"approve 1 PRs?"}, h.prompts)
}

func TestApprove_PromptError(t *testing.T) {
	h := newHarness(t, github.NewMockClientWithOptions(github.WithPullRequests(10, openPRs(1)...)))
	h.promptErr = errors.New("no terminal")

	err := h.run("approve")
	assert.ErrorContains(t, err, "no terminal")
	created, _ := h.mock.Snapshot()
	assert.Empty(t, created)
}

func TestApprove_Message(t *testing.T) {
	h := newHarness(t, github.NewMockClientWithOptions(github.WithPullRequests(10, openPRs(1)...)))

	require.NoError(t, h.run("approve", "-y", "-m", "LGTM"))
	assert.Equal(t, []string{"LGTM"}, h.mock.ReviewBodies)
}

func TestApprove_MessageFromConfig(t *testing.T) {
	h := newHarness(t, github.NewMockClientWithOptions(github.WithPullRequests(10, openPRs(1)...)))
	require.NoError(t, os.WriteFile(filepath.Join(h.wd, ".sirseer-approve.yaml"),
		[]byte("defaults:\n  message: Approved in bulk\n"), 0o600))

	require.NoError(t, h.run("approve", "-y"))
	assert.Equal(t, []string{"Approved in bulk"}, h.mock.ReviewBodies)
}

func TestApprove_ErrorIsReturned(t *testing.T) {
	prs := openPRs(3)
	h := newHarness(t, github.NewMockClientWithOptions(github.WithPullRequests(10, prs...)))
	h.mock.SubmitErrors[prs[1].Ref.String()] = fmt.Errorf("submit: %w", apperrors.ErrNetworkFailure)

	err := h.run("approve", "-y")

	require.Error(t, err)
	assert.Equal(t, 3, mapErrorToExitCode(err))
	assert.Contains(t, h.stderr.String(), "approved 2 PRs")
}

func TestApprove_Report(t *testing.T) {
	prs := openPRs(3)
	prs[2].Mergeable = false
	h := newHarness(t, github.NewMockClientWithOptions(github.WithPullRequests(10, prs...)))
	report := filepath.Join(h.wd, "report.ndjson")

	require.NoError(t, h.run("approve", "-y", "--report", report))

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	outcomes := map[string]int{}
	for _, line := range lines {
		var rec struct {
			Outcome string `json:"outcome"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		outcomes[rec.Outcome]++
	}
	assert.Equal(t, map[string]int{"approved": 2, "skipped-not-mergeable": 1}, outcomes)
}

func TestApprove_RequireAuth(t *testing.T) {
	h := newHarness(t, github.NewMockClient())

	err := h.run("approve", "-y", "--require-auth")

	assert.ErrorIs(t, err, apperrors.ErrMissingToken)
	assert.Equal(t, 2, mapErrorToExitCode(err))
}

func TestApprove_AuthFailure(t *testing.T) {
	h := newHarness(t, github.NewMockClientWithOptions(github.WithAuthFailure()))

	err := h.run("approve")

	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	assert.Equal(t, 2, mapErrorToExitCode(err))
	assert.Empty(t, h.prompts)
}

func TestApprove_InvalidConfig(t *testing.T) {
	h := newHarness(t, github.NewMockClient())
	require.NoError(t, os.WriteFile(filepath.Join(h.wd, ".sirseer-approve.yaml"),
		[]byte("defaults:\n  per_page: 500\n"), 0o600))

	err := h.run("approve", "-y")
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
	assert.Equal(t, 1, mapErrorToExitCode(err))
}

func TestCount_FilterFlags(t *testing.T) {
	h := newHarness(t, github.NewMockClient())

	require.NoError(t, h.run("count",
		"--user", "acme",
		"--label", "deps",
		"--label", "needs review",
		"--not", "author:bot",
		"--no-state",
		"lodash",
	))

	want := `lodash label:deps "label:needs review" user:acme -author:bot is:pr archived:false`
	assert.Contains(t, h.mock.CountQueries, want+" status:pending")
	assert.Contains(t, h.stdout.String(), "0 PRs match")
}

func TestCount_UserAndRepoWarning(t *testing.T) {
	h := newHarness(t, github.NewMockClient())

	require.NoError(t, h.run("count", "--user", "acme", "--repo", "acme/widgets"))
	assert.Contains(t, h.stderr.String(), "warning: specifying both user and repo")
}

func TestCount_NoLabel(t *testing.T) {
	h := newHarness(t, github.NewMockClient())

	require.NoError(t, h.run("count", "--no-label"))
	assert.Contains(t, h.mock.CountQueries, "no:label "+defaultQuery+" status:failure")
}

func TestCount_JSON(t *testing.T) {
	h := newHarness(t, github.NewMockClientWithOptions(
		github.WithPullRequests(10, openPRs(4)...),
		github.WithStatusCounts(defaultQuery, map[string]int{"pending": 1, "success": 3}),
	))

	require.NoError(t, h.run("count", "--json"))

	var got struct {
		Query    string `json:"query"`
		Total    int    `json:"total"`
		Statuses []struct {
			Status string `json:"status"`
			Count  int    `json:"count"`
		} `json:"statuses"`
	}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &got))
	assert.Equal(t, defaultQuery, got.Query)
	assert.Equal(t, 4, got.Total)
	require.Len(t, got.Statuses, 3)
	assert.Equal(t, "success", got.Statuses[1].Status)
	assert.Equal(t, 3, got.Statuses[1].Count)

	created, _ := h.mock.Snapshot()
	assert.Empty(t, created, "count never approves")
}

func TestCount_TokenAndEndpoints(t *testing.T) {
	h := newHarness(t, github.NewMockClient())
	t.Setenv("GITHUB_API_ENDPOINT", "https://ghe.example.com/api/v3")

	require.NoError(t, h.run("count", "--token", "secret"))

	assert.Equal(t, "secret", h.opts.Token)
	assert.Equal(t, "https://ghe.example.com/api/v3", h.opts.APIEndpoint)
	assert.Equal(t, "https://api.github.com/graphql", h.opts.GraphQLEndpoint)
}

func TestCount_TokenFromEnvironment(t *testing.T) {
	h := newHarness(t, github.NewMockClient())
	t.Setenv("GH_TOKEN", "from-env")

	require.NoError(t, h.run("count"))
	assert.Equal(t, "from-env", h.opts.Token)
}

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"invalid token", fmt.Errorf("search: %w", apperrors.ErrInvalidToken), 2},
		{"missing token", apperrors.ErrMissingToken, 2},
		{"not found", apperrors.ErrNotFound, 2},
		{"rate limit", apperrors.ErrRateLimit, 2},
		{"network", fmt.Errorf("fetch: %w", apperrors.ErrNetworkFailure), 3},
		{"config", apperrors.ErrInvalidConfig, 1},
		{"other", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapErrorToExitCode(tt.err))
		})
	}
}
