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

// Package output writes records as NDJSON (Newline Delimited JSON), one JSON
// object per line. It is used for the approval report: one line per pull
// request the approval run attempted, written as soon as the attempt ends so
// a report of a long run can be followed with tail -f.
//
// Example usage:
//
//	w, err := output.Open("approvals.ndjson")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.Write(result); err != nil {
//	    log.Warnw("failed to write report", "error", err)
//	}
package output
