package giterror

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-github/v68/github"
)

// errorResponse builds a go-github error response for the given status.
func errorResponse(status int, messages ...string) *github.ErrorResponse {
	u, _ := url.Parse("https://api.github.com/repos/acme/widgets/pulls/7/reviews")
	resp := &github.ErrorResponse{
		Response: &http.Response{
			StatusCode: status,
			Request:    &http.Request{Method: http.MethodPost, URL: u},
		},
		Message: http.StatusText(status),
	}
	for _, m := range messages {
		resp.Errors = append(resp.Errors, github.Error{Message: m})
	}
	return resp
}

// onPull points the request of resp at pull request number n.
func onPull(resp *github.ErrorResponse, n int) *github.ErrorResponse {
	resp.Response.Request.URL.Path = fmt.Sprintf("/repos/acme/widgets/pulls/%d", n)
	return resp
}

func TestGitHubErrorInspector_IsAuthError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "structured 401",
			err:  errorResponse(http.StatusUnauthorized),
			want: true,
		},
		{
			name: "structured 403",
			err:  errorResponse(http.StatusForbidden),
			want: true,
		},
		{
			name: "bad credentials",
			err:  errors.New("Bad credentials"),
			want: true,
		},
		{
			name: "wrapped auth error",
			err:  fmt.Errorf("failed to query: %w", errors.New("401 Unauthorized")),
			want: true,
		},
		{
			name: "server error on pull request 401",
			err:  onPull(errorResponse(http.StatusInternalServerError), 401),
			want: false,
		},
		{
			name: "rate limit is not auth",
			err:  &github.RateLimitError{Response: errorResponse(http.StatusForbidden).Response, Message: "API rate limit exceeded"},
			want: false,
		},
		{
			name: "not an auth error",
			err:  errors.New("something went wrong"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_IsNotFoundError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "structured 404",
			err:  errorResponse(http.StatusNotFound),
			want: true,
		},
		{
			name: "resource not found",
			err:  errors.New("Resource not found"),
			want: true,
		},
		{
			name: "wrapped not found error",
			err:  fmt.Errorf("failed to fetch: %w", errors.New("404 Not Found")),
			want: true,
		},
		{
			name: "server error on pull request 404",
			err:  onPull(errorResponse(http.StatusBadGateway), 404),
			want: false,
		},
		{
			name: "not a not found error",
			err:  errors.New("internal server error"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNotFoundError(tt.err); got != tt.want {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_IsRateLimitError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "primary rate limit",
			err:  &github.RateLimitError{Response: errorResponse(http.StatusForbidden).Response, Message: "API rate limit exceeded"},
			want: true,
		},
		{
			name: "secondary rate limit",
			err:  &github.AbuseRateLimitError{Response: errorResponse(http.StatusForbidden).Response, Message: "You have exceeded a secondary rate limit"},
			want: true,
		},
		{
			name: "429 too many requests",
			err:  errors.New("429 Too Many Requests"),
			want: true,
		},
		{
			name: "structured 429",
			err:  errorResponse(http.StatusTooManyRequests),
			want: true,
		},
		{
			name: "server error on pull request 429",
			err:  onPull(errorResponse(http.StatusInternalServerError), 429),
			want: false,
		},
		{
			name: "not a rate limit error",
			err:  errors.New("invalid query"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.want)
			}
		})
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o deadline reached" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestGitHubErrorInspector_IsNetworkError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "url error from http client",
			err:  &url.Error{Op: "Get", URL: "https://api.github.com", Err: timeoutError{}},
			want: true,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:443: connection refused"),
			want: true,
		},
		{
			name: "no such host",
			err:  errors.New("dial tcp: lookup api.github.com: no such host"),
			want: true,
		},
		{
			name: "wrapped deadline",
			err:  fmt.Errorf("search failed: %w", &net.OpError{Op: "read", Err: timeoutError{}}),
			want: true,
		},
		{
			name: "not a network error",
			err:  errors.New("validation failed"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_IsPendingReviewConflict(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "pending review validation error",
			err:  errorResponse(http.StatusUnprocessableEntity, PendingReviewMessage),
			want: true,
		},
		{
			name: "wrapped pending review error",
			err:  fmt.Errorf("failed to create review for acme/widgets#7: %w", errorResponse(http.StatusUnprocessableEntity, "other", PendingReviewMessage)),
			want: true,
		},
		{
			name: "other validation error",
			err:  errorResponse(http.StatusUnprocessableEntity, "Can not approve your own pull request"),
			want: false,
		},
		{
			name: "message match requires exact text",
			err:  errorResponse(http.StatusUnprocessableEntity, "user can only have one pending review per pull request"),
			want: false,
		},
		{
			name: "same message with a different status",
			err:  errorResponse(http.StatusBadRequest, PendingReviewMessage),
			want: false,
		},
		{
			name: "unstructured error carrying the text",
			err:  errors.New(PendingReviewMessage),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsPendingReviewConflict(tt.err); got != tt.want {
				t.Errorf("IsPendingReviewConflict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGitHubErrorInspector_NetworkTimeoutIsNotConflict(t *testing.T) {
	inspector := NewInspector()
	err := &url.Error{Op: "Post", URL: "https://api.github.com", Err: timeoutError{}}

	if inspector.IsPendingReviewConflict(err) {
		t.Error("network error classified as pending review conflict")
	}
	if !inspector.IsNetworkError(err) {
		t.Error("expected network error")
	}
}
