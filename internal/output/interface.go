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

package output

// OutputWriter is where approval outcomes are reported.
type OutputWriter interface {
	// Write writes a single record. Implementations must be safe for
	// concurrent use, since approvals finish concurrently.
	Write(record interface{}) error

	// Close releases the underlying resources. Writes after Close fail.
	Close() error
}

var _ OutputWriter = (*Writer)(nil)
