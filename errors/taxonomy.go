package errors

import (
	stderrors "errors"
)

// Coded is implemented by errors that carry an ErrorCode. Command and HTTP
// errors implement it so callers can classify failures without importing
// the producing package.
type Coded interface {
	ErrorCode() ErrorCode
}

// ExitStatuser is implemented by errors that know which process exit status
// a script should terminate with.
type ExitStatuser interface {
	ExitStatus() int
}

// CodeOf returns the code of the first Coded error in err's chain, or
// ErrCodeInternal when none is found. A nil error has no code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var c Coded
	if stderrors.As(err, &c) {
		return c.ErrorCode()
	}
	return ErrCodeInternal
}

// Is reports whether err's chain carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// ExitCode returns the status a script should exit with after failing with
// err: the failure's own status when it is known and non-zero, otherwise 1.
// A nil error exits 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var s ExitStatuser
	if stderrors.As(err, &s) {
		if status := s.ExitStatus(); status > 0 {
			return status
		}
	}
	return 1
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
