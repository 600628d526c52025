package client

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeNetErr struct{ timeout bool }

func (e fakeNetErr) Error() string   { return "dial tcp: fake" }
func (e fakeNetErr) Timeout() bool   { return e.timeout }
func (e fakeNetErr) Temporary() bool { return false }

// TestCategorizeError verifies that CategorizeError maps client errors to the
// metric label used for failed runs.
func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ""},
		{"timeout context", context.DeadlineExceeded, ErrorCategoryTimeout},
		{"canceled context", context.Canceled, ErrorCategoryTimeout},
		{"invalid API key", ErrInvalidAPIKey, ErrorCategoryInvalidAPIKey},
		{"wrapped invalid API key", fmt.Errorf("current: %w", ErrInvalidAPIKey), ErrorCategoryInvalidAPIKey},
		{"rate limited", ErrRateLimited, ErrorCategoryRateLimited},
		{"upstream failure", fmt.Errorf("%w: HTTP 502", ErrUpstreamFailure), ErrorCategoryUpstream},
		{"malformed", fmt.Errorf("%w: parse current response", ErrMalformedResponse), ErrorCategoryMalformed},
		{"transport settings", ErrInvalidTransport, ErrorCategoryTransportSetting},
		{"net timeout", fmt.Errorf("get: %w", fakeNetErr{timeout: true}), ErrorCategoryTimeout},
		{"net error", fmt.Errorf("get: %w", fakeNetErr{}), ErrorCategoryNetwork},
		{"network in message", errors.New("connection refused"), ErrorCategoryNetwork},
		{"unknown", errors.New("something else"), ErrorCategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorizeError(tt.err)
			if got != tt.want {
				t.Errorf("CategorizeError() = %v, want %v", got, tt.want)
			}
		})
	}
}
