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

// Package main implements the sirseer-approve command-line interface.
// The tool searches GitHub for pull requests matching a query and approves
// all of them, a bounded number at a time.
//
// The CLI supports:
//   - Building the search query from free terms and filter flags
//   - Counting matches, broken down by commit status
//   - Confirming before approving, or approving straight away with -y
//   - An NDJSON report with the outcome of every approval attempt
//
// Usage:
//
//	sirseer-approve approve [query..] [flags]
//	sirseer-approve count [query..] [flags]
//
// Example:
//
//	export GH_TOKEN=your_token
//	sirseer-approve approve --user acme --label dependencies author:app/dependabot
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error
//   - 3: Network error
package main
