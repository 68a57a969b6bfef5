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

// Package stream turns paginated GitHub search results into a lazy,
// single-consumer sequence of matches.
//
// A ResultStream fetches pages on demand and resolves a shared TotalCount
// from the first page it sees. A Peekable wraps any Iterator so callers can
// look at the first match, and learn the total, before deciding whether to
// consume the rest:
//
//	total := stream.NewTotalCount()
//	peek := stream.NewPeekable(stream.NewResultStream(client, query, total))
//	if _, ok, err := peek.Peek(ctx); err != nil || !ok {
//	    return err
//	}
//	n, _ := total.Wait(ctx)
//	it := peek.Replay()
//	for {
//	    match, err := it.Next(ctx)
//	    if errors.Is(err, stream.Done) {
//	        break
//	    }
//	    ...
//	}
package stream
