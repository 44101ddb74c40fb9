package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Command execution errors
const (
	// ErrCodeProcessExit indicates a command exited with a non-zero status.
	ErrCodeProcessExit ErrorCode = "PROCESS_EXIT_NON_ZERO"
	// ErrCodeBufferOverflow indicates captured command output exceeded the
	// configured buffer ceiling. It is a configuration problem and is never
	// retried or suppressed.
	ErrCodeBufferOverflow ErrorCode = "PROCESS_BUFFER_OVERFLOW"
)

// HTTP errors
const (
	// ErrCodeTransport indicates no response was received (DNS, refused, timeout).
	ErrCodeTransport ErrorCode = "TRANSPORT_FAILURE"
	// ErrCodeNonSuccessStatus indicates a response whose status is not 2xx.
	ErrCodeNonSuccessStatus ErrorCode = "NON_SUCCESS_STATUS"
)

// Generic errors
const (
	// ErrCodeTimeout indicates an operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeUsage indicates a script was invoked with bad arguments or environment.
	ErrCodeUsage ErrorCode = "USAGE"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeProcessExit:      true,
	ErrCodeTransport:        true,
	ErrCodeNonSuccessStatus: true,
	ErrCodeTimeout:          true,
	ErrCodeBufferOverflow:   false,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
