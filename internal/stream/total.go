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
	"sync"
)

// TotalCount is a single-assignment future holding the size of a result set.
// It has one writer and any number of waiters. The first call to Resolve or
// Fail wins; later calls are ignored.
type TotalCount struct {
	once  sync.Once
	ready chan struct{}
	n     int
	err   error
}

// NewTotalCount returns an unresolved TotalCount.
func NewTotalCount() *TotalCount {
	return &TotalCount{ready: make(chan struct{})}
}

// Resolve sets the count. It reports whether this call settled the future.
func (t *TotalCount) Resolve(n int) bool {
	return t.settle(n, nil)
}

// Fail settles the future with err. It reports whether this call settled
// the future.
func (t *TotalCount) Fail(err error) bool {
	return t.settle(0, err)
}

func (t *TotalCount) settle(n int, err error) bool {
	settled := false
	t.once.Do(func() {
		t.n, t.err = n, err
		settled = true
		close(t.ready)
	})
	return settled
}

// Ready is closed once the future is settled.
func (t *TotalCount) Ready() <-chan struct{} {
	return t.ready
}

// Wait blocks until the future is settled or ctx is done.
func (t *TotalCount) Wait(ctx context.Context) (int, error) {
	select {
	case <-t.ready:
		return t.n, t.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
