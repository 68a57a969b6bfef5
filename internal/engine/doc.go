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

// Package engine ties search, counting and approval together for one query.
//
// An Engine is created per query. Counts peeks at the search results to
// learn the total and, unless the query already filters on commit status,
// breaks the total down by status. Approve then consumes the same results,
// including the peeked one, and approves every matching pull request with
// bounded concurrency.
package engine
