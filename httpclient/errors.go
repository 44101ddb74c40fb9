package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	goerrors "github.com/kbukum/gosh/errors"
)

// ErrorKind classifies HTTP client failures.
type ErrorKind int

const (
	// NonSuccessStatus means a response arrived with a status outside 2xx.
	NonSuccessStatus ErrorKind = iota
	// TransportFailure means no response was received.
	TransportFailure
)

// String returns the error kind name.
func (k ErrorKind) String() string {
	switch k {
	case NonSuccessStatus:
		return "non_success_status"
	case TransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// RequestError reports a failed HTTP call.
type RequestError struct {
	Kind ErrorKind
	// Message is the human-readable failure description.
	Message string
	// Request is the descriptor of the request that failed.
	Request *RawRequest
	// Options are the caller's options for the call.
	Options RequestOptions
	// Response is set for NonSuccessStatus.
	Response *Response
	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// ErrorCode implements errors.Coded.
func (e *RequestError) ErrorCode() goerrors.ErrorCode {
	if e.Kind == TransportFailure {
		return goerrors.ErrCodeTransport
	}
	return goerrors.ErrCodeNonSuccessStatus
}

// StatusCode returns the response status, or 0 when none was received.
func (e *RequestError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// Data returns the parsed response body, or nil when none was received.
func (e *RequestError) Data() any {
	if e.Response == nil {
		return nil
	}
	return e.Response.Data
}

// newStatusError builds the NonSuccessStatus error for resp.
func newStatusError(raw *RawRequest, opts RequestOptions, resp *Response) *RequestError {
	msg := fmt.Sprintf("%d %s: %s %s", resp.StatusCode, resp.StatusMessage, raw.Method, raw.URL)
	if !opts.OmitBodyInErrorMessage && resp.Body != "" {
		msg += "\n" + resp.Body
	}
	return &RequestError{
		Kind:     NonSuccessStatus,
		Message:  msg,
		Request:  raw,
		Options:  opts,
		Response: resp,
	}
}

// newTransportError builds the TransportFailure error for err. The message
// is the innermost transport error text without the method and URL prefix.
func newTransportError(raw *RawRequest, opts RequestOptions, err error) *RequestError {
	msg := err.Error()
	var ue *url.Error
	if errors.As(err, &ue) {
		msg = ue.Err.Error()
	}
	return &RequestError{
		Kind:    TransportFailure,
		Message: msg,
		Request: raw,
		Options: opts,
		Err:     err,
	}
}

// IsNonSuccessStatus reports whether err is a NonSuccessStatus failure.
func IsNonSuccessStatus(err error) bool {
	var e *RequestError
	return errors.As(err, &e) && e.Kind == NonSuccessStatus
}

// IsTransportFailure reports whether err is a TransportFailure.
func IsTransportFailure(err error) bool {
	var e *RequestError
	return errors.As(err, &e) && e.Kind == TransportFailure
}

// StatusCodeOf returns the response status carried by err, or 0.
func StatusCodeOf(err error) int {
	var e *RequestError
	if errors.As(err, &e) {
		return e.StatusCode()
	}
	return 0
}

// IsRetryable reports whether err is an HTTP failure worth another attempt.
// Every RequestError is retryable except one caused by caller cancellation.
func IsRetryable(err error) bool {
	var e *RequestError
	if !errors.As(err, &e) {
		return false
	}
	return !errors.Is(err, context.Canceled)
}
