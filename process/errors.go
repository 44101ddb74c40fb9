package process

import (
	"fmt"

	goerrors "github.com/kbukum/gosh/errors"
)

// CommandError reports a command that did not exit with status 0.
type CommandError struct {
	Command string
	Stdout  string
	Stderr  string
	// Status is the exit status, or 128+signal when the child was killed.
	Status   int
	TimedOut bool
	Signaled bool
}

// Error returns a summary line followed by the command's diagnostic output.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("Error running command: `%s`", e.Command)
	if e.TimedOut {
		msg += " (timed out)"
	}
	if out := e.Output(); out != "" {
		msg += "\n" + out
	}
	return msg
}

// Output returns stderr, or stdout when stderr is empty.
func (e *CommandError) Output() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Stdout
}

// ErrorCode implements errors.Coded.
func (e *CommandError) ErrorCode() goerrors.ErrorCode { return goerrors.ErrCodeProcessExit }

// ExitStatus implements errors.ExitStatuser.
func (e *CommandError) ExitStatus() int { return e.Status }
