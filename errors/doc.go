// Package errors provides the shared error taxonomy for gosh.
// It implements a structured error type with machine-readable codes,
// retryable detection and exit-status mapping for scripts.
package errors
