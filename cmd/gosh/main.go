// Command gosh exposes the command runner and HTTP client on the command
// line.
package main

import (
	"context"

	"github.com/kbukum/gosh/internal/cli"
	"github.com/kbukum/gosh/script"
)

func main() {
	script.Main(func(ctx context.Context, sc *script.Context) error {
		return cli.NewRootCommand(sc).ExecuteContext(ctx)
	})
}
