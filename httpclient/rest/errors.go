package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/kbukum/gosh/httpclient"
)

// REST error helpers classify httpclient failures by status so REST client
// users don't need to import httpclient directly for error checking.

// IsNotFound checks if the error is a 404 Not Found.
func IsNotFound(err error) bool { return httpclient.StatusCodeOf(err) == http.StatusNotFound }

// IsAuth checks if the error is a 401/403 authentication error.
func IsAuth(err error) bool {
	code := httpclient.StatusCodeOf(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsRateLimit checks if the error is a 429 Too Many Requests.
func IsRateLimit(err error) bool { return httpclient.StatusCodeOf(err) == http.StatusTooManyRequests }

// IsServerError checks if the error is a 5xx server error.
func IsServerError(err error) bool { return httpclient.StatusCodeOf(err) >= 500 }

// IsRetryable checks if the error can be retried.
func IsRetryable(err error) bool { return httpclient.IsRetryable(err) }

// IsTimeout checks if the error is a request timeout.
func IsTimeout(err error) bool {
	return httpclient.IsTransportFailure(err) && errors.Is(err, context.DeadlineExceeded)
}
