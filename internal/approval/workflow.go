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

package approval

import (
	"context"
	"fmt"

	"github.com/sirseerhq/sirseer-approve/internal/giterror"
	"github.com/sirseerhq/sirseer-approve/internal/github"
	"go.uber.org/zap"
)

// State is a step of the approval workflow.
type State string

// Workflow states. The last four are terminal.
const (
	StateFetching            State = "fetching"
	StateChecking            State = "checking"
	StateReviewing           State = "reviewing"
	StateSubmitting          State = "submitting"
	StateApproved            State = "approved"
	StateSkippedNotMergeable State = "skipped-not-mergeable"
	StateSkippedConflict     State = "skipped-conflict"
	StateFailed              State = "failed"
)

// Terminal reports whether the workflow stops in s.
func (s State) Terminal() bool {
	switch s {
	case StateApproved, StateSkippedNotMergeable, StateSkippedConflict, StateFailed:
		return true
	default:
		return false
	}
}

// Result is the outcome of one workflow run.
type Result struct {
	URL         string                 `json:"url"`
	PullRequest *github.PullRequestRef `json:"pull_request,omitempty"`
	HTMLURL     string                 `json:"html_url,omitempty"`
	State       State                  `json:"outcome"`
	ReviewID    int64                  `json:"review_id,omitempty"`

	// FailedIn is the state the workflow failed in.
	FailedIn State  `json:"failed_in,omitempty"`
	Error    string `json:"error,omitempty"`
	Err      error  `json:"-"`
}

// Workflow approves single pull requests. It is safe for concurrent use;
// each Run keeps its own state.
type Workflow struct {
	client    github.Reviewer
	inspector giterror.Inspector
	message   string
	log       *zap.SugaredLogger
}

// NewWorkflow creates a workflow that approves with message as the review
// body. An empty message approves without a body.
func NewWorkflow(client github.Reviewer, message string, log *zap.SugaredLogger) *Workflow {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Workflow{
		client:    client,
		inspector: giterror.NewInspector(),
		message:   message,
		log:       log,
	}
}

// run holds the state of a single workflow execution.
type run struct {
	result Result
	detail *github.PullRequestDetail
	log    *zap.SugaredLogger
}

func (r *run) fail(state State, err error) State {
	r.result.FailedIn = state
	r.result.Err = err
	r.result.Error = err.Error()
	return StateFailed
}

// Run approves the pull request at the given API URL. The pull request is
// fetched fresh on every run. Errors are reported through Result.Err, which
// is set only in StateFailed.
func (w *Workflow) Run(ctx context.Context, url string) Result {
	r := &run{
		result: Result{URL: url},
		log:    w.log.With("url", url),
	}

	state := StateFetching
	for !state.Terminal() {
		next := w.step(ctx, r, state)
		r.log.Debugw("workflow transition", "from", state, "to", next)
		state = next
	}

	r.result.State = state
	return r.result
}

func (w *Workflow) step(ctx context.Context, r *run, state State) State {
	switch state {
	case StateFetching:
		detail, err := w.client.GetPullRequest(ctx, r.result.URL)
		if err != nil {
			return r.fail(state, err)
		}
		r.detail = detail
		r.result.PullRequest = &detail.Ref
		r.result.HTMLURL = detail.HTMLURL
		r.log = r.log.With("pr", detail.Ref.String())
		return StateChecking

	case StateChecking:
		if r.detail.Mergeable {
			return StateReviewing
		}
		if r.detail.State == github.StateClosed {
			r.log.Debug("pull request is closed")
		} else {
			r.log.Debug("pull request is not mergeable")
		}
		return StateSkippedNotMergeable

	case StateReviewing:
		id, err := w.client.CreateReview(ctx, r.detail.Ref, w.message)
		if err != nil {
			if w.inspector.IsPendingReviewConflict(err) {
				r.log.Debug("a pending review already exists")
				return StateSkippedConflict
			}
			return r.fail(state, err)
		}
		r.result.ReviewID = id
		return StateSubmitting

	case StateSubmitting:
		err := w.client.SubmitReview(ctx, r.detail.Ref, r.result.ReviewID, github.ReviewApprove)
		if err != nil {
			if w.inspector.IsPendingReviewConflict(err) {
				r.log.Debug("a pending review already exists")
				return StateSkippedConflict
			}
			return r.fail(state, err)
		}
		r.log.Debug("approved")
		return StateApproved
	}

	return r.fail(state, fmt.Errorf("unknown workflow state %q", state))
}
