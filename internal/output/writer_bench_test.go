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

import (
	"io"
	"testing"
)

func BenchmarkWriter_Write(b *testing.B) {
	w := NewWriter(io.Discard)
	rec := outcome{URL: "https://api.github.com/repos/acme/widgets/pulls/1", Outcome: "approved"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := w.Write(rec); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWriter_Concurrent(b *testing.B) {
	w := NewWriter(io.Discard)
	rec := outcome{URL: "https://api.github.com/repos/acme/widgets/pulls/1", Outcome: "approved"}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := w.Write(rec); err != nil {
				b.Fatal(err)
			}
		}
	})
}
