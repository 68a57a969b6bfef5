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

// Peekable captures the first element of an Iterator without losing it.
type Peekable struct {
	src     Iterator
	peeked  bool
	head    github.SearchMatch
	headErr error
}

// NewPeekable wraps src.
func NewPeekable(src Iterator) *Peekable {
	return &Peekable{src: src}
}

// Peek advances the underlying iterator once and keeps the element it
// produced. Later calls return the same element. ok is false when the
// sequence is empty.
func (p *Peekable) Peek(ctx context.Context) (match github.SearchMatch, ok bool, err error) {
	if !p.peeked {
		p.head, p.headErr = p.src.Next(ctx)
		p.peeked = true
	}

	switch {
	case errors.Is(p.headErr, Done):
		return github.SearchMatch{}, false, nil
	case p.headErr != nil:
		return github.SearchMatch{}, false, p.headErr
	default:
		return p.head, true, nil
	}
}

// Replay returns an iterator yielding the peeked element, or the peek error,
// followed by the rest of the underlying iterator. Without a prior Peek it
// simply drives the underlying iterator. Replay shares the underlying
// iterator, so it is meant to be called once.
func (p *Peekable) Replay() Iterator {
	return &replay{p: p}
}

type replay struct {
	p        *Peekable
	consumed bool
}

func (r *replay) Next(ctx context.Context) (github.SearchMatch, error) {
	if !r.consumed {
		r.consumed = true
		if r.p.peeked {
			return r.p.head, r.p.headErr
		}
	}
	return r.p.src.Next(ctx)
}
