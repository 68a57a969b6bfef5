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
	"sync"

	"golang.org/x/sync/semaphore"
)

// Task is a unit of work run by a Pool.
type Task func(ctx context.Context) error

// Pool runs tasks on their own goroutines, never more than its limit at a
// time. Submitted tasks run to completion: they receive a context that is
// not cancelled with the submitter's.
type Pool struct {
	limit int
	sem   *semaphore.Weighted
	wg    sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

// NewPool creates a pool running at most limit tasks at once. A limit below
// one is treated as one.
func NewPool(limit int) *Pool {
	if limit < 1 {
		limit = 1
	}
	return &Pool{
		limit: limit,
		sem:   semaphore.NewWeighted(int64(limit)),
	}
}

// Limit returns the maximum number of concurrently running tasks.
func (p *Pool) Limit() int {
	return p.limit
}

// Submit blocks until a slot is free, then starts task. It only fails when
// ctx is done before a slot frees up, in which case task never runs.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	taskCtx := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)

		if err := task(taskCtx); err != nil {
			p.mu.Lock()
			p.errs = append(p.errs, err)
			p.mu.Unlock()
		}
	}()
	return nil
}

// Drain waits for every submitted task and returns their errors in
// completion order.
func (p *Pool) Drain() []error {
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]error(nil), p.errs...)
}
