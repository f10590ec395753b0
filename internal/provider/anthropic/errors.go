package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"

	"github.com/flemzord/fizz/internal/provider"
)

// mapError converts an Anthropic SDK error into the appropriate provider
// sentinel error. Non-API errors are returned as-is.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	// Surface context errors directly so callers recognise cancellation.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *sdkanthropic.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %w", provider.ErrBackendDown, err)
	}

	switch apiErr.StatusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: anthropic HTTP %d: %s", provider.ErrRateLimit, apiErr.StatusCode, apiErr.RawJSON())
	case 529, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return fmt.Errorf("%w: anthropic HTTP %d: %s", provider.ErrBackendDown, apiErr.StatusCode, apiErr.RawJSON())
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("anthropic auth error: HTTP %d: %s", apiErr.StatusCode, apiErr.RawJSON())
	default:
		return fmt.Errorf("anthropic error: HTTP %d: %s", apiErr.StatusCode, apiErr.RawJSON())
	}
}
