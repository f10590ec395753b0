package provider

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", ErrRateLimit, true},
		{"backend down", ErrBackendDown, true},
		{"wrapped rate limit", fmt.Errorf("chat: %w", ErrRateLimit), true},
		{"wrapped backend down", fmt.Errorf("chat: %w", ErrBackendDown), true},
		{"bad response", ErrBadResponse, false},
		{"unsupported provider", ErrUnsupportedProvider, false},
		{"generic", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
