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

package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirseerhq/sirseer-approve/internal/approval"
	"github.com/sirseerhq/sirseer-approve/internal/github"
	"github.com/sirseerhq/sirseer-approve/internal/output"
	"github.com/sirseerhq/sirseer-approve/internal/stream"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Defaults for Options.
const (
	DefaultConcurrency = 8
	DefaultPerPage     = 50
)

// Options configures an Engine.
type Options struct {
	// Concurrency is the maximum number of approvals in flight.
	Concurrency int

	// PerPage is the search page size.
	PerPage int

	Logger *zap.SugaredLogger

	// Report, when set, receives one approval.Result per approval attempt.
	Report output.OutputWriter
}

// Counts summarises the matches of a query.
type Counts struct {
	Total int `json:"total"`

	// Statuses is nil when the query has a status qualifier.
	Statuses []StatusCount `json:"statuses,omitempty"`
}

// Engine searches for, counts and approves the pull requests matching a
// single query.
type Engine struct {
	client github.Client
	query  string
	opts   Options
	log    *zap.SugaredLogger

	total    *stream.TotalCount
	peek     *stream.Peekable
	statuses *StatusCounter

	mu          sync.Mutex
	replayTaken bool
	countsDone  bool
	counts      *Counts
	countsErr   error

	approved atomic.Int64
}

// New creates an engine for query. Nothing is fetched until Counts, Matches
// or Approve is called.
func New(client github.Client, query string, opts Options) *Engine {
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.PerPage < 1 {
		opts.PerPage = DefaultPerPage
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	e := &Engine{
		client:   client,
		query:    query,
		opts:     opts,
		log:      opts.Logger.Named("engine"),
		total:    stream.NewTotalCount(),
		statuses: NewStatusCounter(client, opts.Logger.Named("status")),
	}
	e.peek = stream.NewPeekable(e.newStream())
	return e
}

func (e *Engine) newStream() *stream.ResultStream {
	return stream.NewResultStream(e.client, e.query, e.total,
		stream.WithPageSize(e.opts.PerPage),
		stream.WithLogger(e.opts.Logger.Named("search")),
	)
}

// Query returns the search query.
func (e *Engine) Query() string {
	return e.query
}

// Approved returns the number of pull requests approved so far.
func (e *Engine) Approved() int {
	return int(e.approved.Load())
}

// Counts returns the total number of matches and, unless the query has a
// status qualifier, the per-status breakdown. The first call does the work;
// later calls return the same result or error.
func (e *Engine) Counts(ctx context.Context) (*Counts, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.countsDone {
		e.counts, e.countsErr = e.loadCounts(ctx)
		e.countsDone = true
	}
	return e.counts, e.countsErr
}

func (e *Engine) loadCounts(ctx context.Context) (*Counts, error) {
	var statuses []StatusCount

	var g errgroup.Group
	g.Go(func() error {
		_, _, err := e.peek.Peek(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		statuses, err = e.statuses.Count(ctx, e.query)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total, err := e.total.Wait(ctx)
	if err != nil {
		return nil, err
	}

	e.log.Debugw("counted matches", "query", e.query, "total", total, "statuses", statuses)
	return &Counts{Total: total, Statuses: statuses}, nil
}

// Matches returns the sequence of search matches. The first call replays
// whatever Counts already fetched; later calls start a fresh search sharing
// the same total.
func (e *Engine) Matches() stream.Iterator {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.replayTaken {
		e.replayTaken = true
		return e.peek.Replay()
	}
	return e.newStream()
}

// Approve approves every mergeable pull request matching the query and
// returns how many were approved by this call.
//
// Pull requests that are not mergeable or already carry a pending review
// are skipped. Any other failure does not stop the remaining approvals; once
// all of them finished, the first error is returned and the others are
// logged. Approvals already started run to completion even if ctx is
// cancelled.
func (e *Engine) Approve(ctx context.Context, message string) (int, error) {
	var approved atomic.Int64
	workflow := approval.NewWorkflow(e.client, message, e.opts.Logger.Named("approval"))
	pool := approval.NewPool(e.opts.Concurrency)

	var iterErr error
	it := e.Matches()
	for {
		match, err := it.Next(ctx)
		if errors.Is(err, stream.Done) {
			break
		}
		if err != nil {
			iterErr = err
			break
		}

		if match.PullRequestURL == "" {
			e.log.Debugw("skipping match without a pull request", "number", match.Number, "url", match.HTMLURL)
			continue
		}

		url := match.PullRequestURL
		err = pool.Submit(ctx, func(ctx context.Context) error {
			return e.approveOne(ctx, workflow, url, &approved)
		})
		if err != nil {
			iterErr = err
			break
		}
	}

	errs := pool.Drain()
	if iterErr != nil {
		errs = append(errs, iterErr)
	}

	n := int(approved.Load())
	if len(errs) == 0 {
		return n, nil
	}
	for _, err := range errs[1:] {
		e.log.Warnw("approval error", "error", err)
	}
	return n, errs[0]
}

func (e *Engine) approveOne(ctx context.Context, workflow *approval.Workflow, url string, approved *atomic.Int64) error {
	result := workflow.Run(ctx, url)
	if result.State == approval.StateApproved {
		approved.Add(1)
		e.approved.Add(1)
	}

	if e.opts.Report != nil {
		if err := e.opts.Report.Write(result); err != nil {
			e.log.Warnw("failed to write approval report", "url", url, "error", err)
		}
	}

	if result.Err != nil {
		return fmt.Errorf("failed to approve %s: %w", url, result.Err)
	}
	return nil
}
