package llm

import (
	"errors"
	"fmt"
)

// AuthError means the provider rejected the credential. Never retried.
type AuthError struct {
	Provider string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s rejected the API credential (HTTP 401)", e.Provider)
}

// RateLimitError means the provider throttled the request. Retryable.
type RateLimitError struct {
	Provider string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited the request (HTTP 429)", e.Provider)
}

// TransportError wraps a timeout or network-level failure. Retryable.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError reports any other non-success status. Never retried.
type HTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Provider, e.StatusCode, e.Body)
}

// IsAuthError reports whether err is (or wraps) a credential rejection.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// isRetryable classifies errors for the retry executor: rate limits and
// transport failures are worth retrying, everything else is fatal.
func isRetryable(err error) bool {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	var te *TransportError
	return errors.As(err, &te)
}
