package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/gosh/process"
	"github.com/kbukum/gosh/script"
)

func newExecCommand(sc *script.Context) *cobra.Command {
	var (
		opts  process.Options
		retry retryFlags
	)

	cmd := &cobra.Command{
		Use:   "exec [flags] <command line>",
		Short: "Run a command line through the shell",
		Example: `  gosh exec -- 'git rev-parse HEAD'
  gosh exec --retries 3 --retry-delay 2s -- curl -fsS http://localhost:8080/health
  gosh exec --no-throw -- 'grep missing file.txt'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := strings.Join(args, " ")

			var (
				out string
				err error
			)
			if rc := retry.config(cmd, sc.Config.Retry); rc != nil {
				out, err = sc.Runner.Retry(cmd.Context(), line, opts, rc)
			} else {
				out, err = sc.Runner.Run(cmd.Context(), line, opts)
			}
			if err != nil {
				return err
			}
			if out != "" {
				sc.Echo(out)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.SetInterspersed(false)
	f.BoolVar(&opts.NoThrow, "no-throw", false, "print stderr (or stdout) instead of failing on a non-zero exit")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "do not echo the command line")
	f.BoolVar(&opts.NoCapture, "stream", false, "connect the command to this terminal instead of capturing output")
	f.DurationVar(&opts.Timeout, "timeout", time.Duration(0), "kill the command after this long")
	f.StringVar(&opts.Shell, "shell", "", "shell to run the line with (default from config)")
	f.BoolVar(&opts.NoShell, "no-shell", false, "split the line into argv and run it without a shell")
	retry.register(cmd)
	return cmd
}
