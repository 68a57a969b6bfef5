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

package github

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirseerhq/sirseer-approve/internal/giterror"
	"golang.org/x/oauth2"
)

// maxResponseSize caps the body of a single API response.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// newHTTPClient builds the HTTP client shared by the REST and GraphQL
// clients: token auth on top of idempotent retries on top of size limits.
func newHTTPClient(token string, base http.RoundTripper, backoff time.Duration) *http.Client {
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		}
	}
	if backoff <= 0 {
		backoff = time.Second
	}

	var rt http.RoundTripper = &retryTransport{
		base:       &limitTransport{base: base, limit: maxResponseSize},
		maxRetries: 3,
		backoff:    backoff,
		inspector:  giterror.NewInspector(),
	}

	if token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   rt,
		}
	}

	return &http.Client{Transport: rt}
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// limitTransport applies limitedReader to every response body.
type limitTransport struct {
	base  http.RoundTripper
	limit int64
}

// RoundTrip implements http.RoundTripper
func (t *limitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		resp.Body = &limitedReader{ReadCloser: resp.Body, limit: t.limit}
	}
	return resp, nil
}

// retryTransport adds exponential backoff retries for transient failures of
// idempotent requests. Review creation and submission are never retried, so
// a lost response cannot turn into a duplicate pending review.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
	inspector  giterror.Inspector
}

// RoundTrip implements http.RoundTripper with retry logic.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !isIdempotent(req.Method) {
		return t.base.RoundTrip(req)
	}

	var lastErr error
	backoff := t.backoff

	for attempt := 0; attempt < t.maxRetries; attempt++ {
		resp, err := t.base.RoundTrip(req.Clone(req.Context()))

		if err == nil && !isRetryableStatusCode(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			if !t.inspector.IsNetworkError(err) {
				return nil, err
			}
			lastErr = err
		} else {
			// Hand the last retryable response back to the caller intact.
			if attempt == t.maxRetries-1 {
				return resp, nil
			}
			lastErr = fmt.Errorf("received status %d", resp.StatusCode)
			resp.Body.Close()
		}

		if attempt < t.maxRetries-1 {
			select {
			case <-time.After(backoff):
				backoff *= 2
				if backoff > 30*time.Second {
					backoff = 30 * time.Second
				}
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", t.maxRetries, lastErr)
}

func isIdempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// isRetryableStatusCode checks if an HTTP status code should trigger a retry.
func isRetryableStatusCode(code int) bool {
	switch code {
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
