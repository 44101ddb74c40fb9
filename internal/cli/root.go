package cli

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/gosh/script"
)

// NewRootCommand builds the gosh command tree around sc.
func NewRootCommand(sc *script.Context) *cobra.Command {
	root := &cobra.Command{
		Use:   "gosh",
		Short: "Run shell commands and HTTP calls with script-friendly failure handling.",
		Long: `gosh runs command lines and HTTP requests the way automation scripts
need them: echoed, captured, retried, and failing with the command's own
exit status.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	args := sc.Args.All()
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(sc.Stdout())
	root.SetErr(sc.Stderr())

	root.AddCommand(
		newExecCommand(sc),
		newHTTPCommand(sc),
		newDownloadCommand(sc),
		newUploadCommand(sc),
		newVersionCommand(),
	)
	return root
}
