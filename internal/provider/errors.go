package provider

import "errors"

// Sentinel errors for chat backend operations.
var (
	// ErrRateLimit indicates the backend returned a rate limit response.
	ErrRateLimit = errors.New("provider rate limited")

	// ErrBackendDown indicates the backend is unreachable or returned a
	// server-side failure.
	ErrBackendDown = errors.New("provider unavailable")

	// ErrBadResponse indicates the backend returned a payload that could
	// not be interpreted as a chat reply.
	ErrBadResponse = errors.New("provider returned unusable response")

	// ErrUnsupportedProvider indicates the configured provider name has no
	// registered implementation.
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// IsRetryable reports whether the error is transient and the request could
// succeed on a later attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimit) || errors.Is(err, ErrBackendDown)
}
