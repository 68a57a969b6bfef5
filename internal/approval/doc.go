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

// Package approval approves individual pull requests and runs those
// approvals with bounded concurrency.
//
// Workflow drives a single pull request through
// fetching → checking → reviewing → submitting and ends in one of the
// terminal states approved, skipped-not-mergeable, skipped-conflict or
// failed. Only failed carries an error; skips are expected outcomes of
// approving many pull requests at once.
//
// Pool limits how many tasks run at the same time and collects the errors
// they return.
package approval
