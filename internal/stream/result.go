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

package stream

import (
	"context"

	"github.com/sirseerhq/sirseer-approve/internal/github"
	"go.uber.org/zap"
)

// ResultStream lazily walks the pages of a search. It is not safe for
// concurrent use and cannot be restarted; create a new one instead.
type ResultStream struct {
	searcher github.Searcher
	query    string
	total    *TotalCount
	perPage  int
	log      *zap.SugaredLogger

	buf      []github.SearchMatch
	started  bool
	nextPage int
	err      error
}

var _ Iterator = (*ResultStream)(nil)

// Option configures a ResultStream.
type Option func(*ResultStream)

// WithPageSize sets how many matches are requested per page.
func WithPageSize(n int) Option {
	return func(s *ResultStream) {
		s.perPage = n
	}
}

// WithLogger traces page fetches to log.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *ResultStream) {
		s.log = log
	}
}

// NewResultStream creates a stream over the matches of query. The first page
// fetched settles total; streams sharing a TotalCount never overwrite it.
func NewResultStream(searcher github.Searcher, query string, total *TotalCount, opts ...Option) *ResultStream {
	s := &ResultStream{
		searcher: searcher,
		query:    query,
		total:    total,
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns the next match, Done at the end of the results, or the error
// of the page fetch that failed. Errors are sticky.
func (s *ResultStream) Next(ctx context.Context) (github.SearchMatch, error) {
	for len(s.buf) == 0 {
		if s.err != nil {
			return github.SearchMatch{}, s.err
		}
		if s.started && s.nextPage == 0 {
			return github.SearchMatch{}, Done
		}
		if err := s.fetch(ctx); err != nil {
			s.err = err
			return github.SearchMatch{}, err
		}
	}

	match := s.buf[0]
	s.buf = s.buf[1:]
	return match, nil
}

func (s *ResultStream) fetch(ctx context.Context) error {
	page := s.nextPage
	if !s.started {
		page = 1
	}

	s.log.Debugw("fetching search page", "query", s.query, "page", page)
	result, err := s.searcher.SearchIssues(ctx, s.query, github.SearchOptions{
		Page:    page,
		PerPage: s.perPage,
	})
	if err != nil {
		if !s.started {
			s.total.Fail(err)
		}
		return err
	}

	if !s.started && s.total.Resolve(result.TotalCount) {
		s.log.Debugw("search total resolved", "query", s.query, "total", result.TotalCount,
			"incomplete", result.IncompleteResults)
	}

	s.started = true
	s.nextPage = result.NextPage
	s.buf = result.Matches
	return nil
}
