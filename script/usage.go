package script

import (
	"errors"
	"fmt"

	goerrors "github.com/kbukum/gosh/errors"
)

// exitError ends the script with a fixed status and an optional message.
type exitError struct {
	message string
	status  int
}

func (e *exitError) Error() string {
	if e.message == "" {
		return fmt.Sprintf("exit status %d", e.status)
	}
	return e.message
}

func (e *exitError) ExitStatus() int { return e.status }

// Usage sets the usage text. When --help or -h was passed it returns a
// usage error so the script prints the text and exits 1.
func (c *Context) Usage(message string) error {
	c.usage = message
	if c.Args.HelpRequested() {
		return goerrors.Usage("", 1)
	}
	return nil
}

// UsageError returns an error that prints the usage text followed by
// message and exits with status.
func (c *Context) UsageError(message string, status int) error {
	return goerrors.Usage(message, status)
}

// Exit returns an error that ends the script with status and prints
// nothing.
func Exit(status int) error {
	return &exitError{status: status}
}

// Fail returns an error that prints message to stderr and ends the script
// with status.
func Fail(message string, status int) error {
	return &exitError{message: message, status: status}
}

// report prints err the way a failed script should and returns the exit
// status. Usage errors print the usage text first.
func (c *Context) report(err error) int {
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.message != "" {
			c.println(ee.message)
		}
		return ee.status
	}

	if appErr, ok := goerrors.AsAppError(err); ok && appErr.Code == goerrors.ErrCodeUsage {
		text := c.usage
		if appErr.Message != "" {
			text += "\n\n" + appErr.Message
		}
		c.println(text)
		return goerrors.ExitCode(err)
	}

	c.Logger.Debug("script failed", map[string]any{"code": string(goerrors.CodeOf(err))})
	c.println(err.Error())
	return goerrors.ExitCode(err)
}

func (c *Context) println(msg string) {
	_, _ = fmt.Fprintln(c.stderr, msg)
}
