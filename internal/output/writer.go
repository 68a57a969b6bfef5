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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Stdout is the path Open maps to standard output.
const Stdout = "-"

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("output writer is closed")

// Writer streams records as NDJSON. It is safe for concurrent use.
type Writer struct {
	mu      sync.Mutex
	encoder *json.Encoder
	count   int
	closed  bool
	closer  io.Closer
}

// NewWriter creates a writer on top of w. Close does not close w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{encoder: json.NewEncoder(w)}
}

// Open creates a writer for path, truncating any existing file. Stdout
// writes to standard output.
func Open(path string) (*Writer, error) {
	if path == Stdout {
		return NewWriter(os.Stdout), nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	w := NewWriter(file)
	w.closer = file
	return w, nil
}

// Write encodes record as a single line.
func (w *Writer) Write(record interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying file, if the writer opened one. Closing
// twice is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
