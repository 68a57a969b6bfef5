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
	"errors"

	"github.com/sirseerhq/sirseer-approve/internal/github"
)

// Done is returned by Next when the sequence is exhausted.
var Done = errors.New("no more matches")

// Iterator is a pull iterator over search matches. Once Next returns an
// error, including Done, every later call returns an error as well.
type Iterator interface {
	Next(ctx context.Context) (github.SearchMatch, error)
}

// Collect drains it into a slice.
func Collect(ctx context.Context, it Iterator) ([]github.SearchMatch, error) {
	var matches []github.SearchMatch
	for {
		match, err := it.Next(ctx)
		if errors.Is(err, Done) {
			return matches, nil
		}
		if err != nil {
			return matches, err
		}
		matches = append(matches, match)
	}
}
