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
	"regexp"

	"github.com/sirseerhq/sirseer-approve/internal/github"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Statuses are the commit statuses a result set is broken down by, in
// reporting order.
var Statuses = []string{"pending", "success", "failure"}

var statusQualifier = regexp.MustCompile(`\bstatus:`)

// HasStatusQualifier reports whether query already filters on commit status.
func HasStatusQualifier(query string) bool {
	return statusQualifier.MatchString(query)
}

// StatusCount is the number of matches with a given commit status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusCounter counts the matches of a query per commit status.
type StatusCounter struct {
	counter github.Counter
	log     *zap.SugaredLogger
}

// NewStatusCounter creates a StatusCounter issuing count queries through counter.
func NewStatusCounter(counter github.Counter, log *zap.SugaredLogger) *StatusCounter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &StatusCounter{counter: counter, log: log}
}

// Count runs one count query per status concurrently and returns the counts
// in Statuses order. It returns nil without issuing any request when query
// already has a status qualifier. Any failed count fails the whole call.
func (c *StatusCounter) Count(ctx context.Context, query string) ([]StatusCount, error) {
	if HasStatusQualifier(query) {
		c.log.Debugw("query filters on status, skipping status breakdown", "query", query)
		return nil, nil
	}

	counts := make([]StatusCount, len(Statuses))
	g, gctx := errgroup.WithContext(ctx)
	for i, status := range Statuses {
		i, status := i, status
		g.Go(func() error {
			q := query + " status:" + status
			n, err := c.counter.CountIssues(gctx, q)
			if err != nil {
				return err
			}
			c.log.Debugw("status count", "query", q, "count", n)
			counts[i] = StatusCount{Status: status, Count: n}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}
