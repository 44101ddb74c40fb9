// Package process runs shell command lines and classifies their outcome.
//
// Runner passes each line to `/bin/sh -c`, captures stdout and stderr
// separately, strips the shell's diagnostic prefix and one surrounding
// newline, and fails with *CommandError on a non-zero exit:
//
//	r := process.NewRunner(process.DefaultConfig())
//	branch, err := r.Run(ctx, "git rev-parse --abbrev-ref HEAD", process.Options{})
//
// Run is the lower-level primitive: it executes a Command in its own
// process group and reports the exit status without interpreting it.
package process
