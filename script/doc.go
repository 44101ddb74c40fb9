// Package script is the entry point for automation scripts. It parses the
// argument vector, snapshots the environment, loads config and wires a
// command runner and an HTTP client that share one console.
//
//	func main() {
//	    script.Main(func(ctx context.Context, sc *script.Context) error {
//	        if err := sc.Usage("Usage: deploy <env>"); err != nil {
//	            return err
//	        }
//	        args, err := sc.Args.AssertCount(1)
//	        if err != nil {
//	            return err
//	        }
//	        if _, err := sc.Env.Assert("DEPLOY_TOKEN"); err != nil {
//	            return err
//	        }
//	        _, err = sc.Runner.Retry(ctx, "./deploy.sh "+args[0], process.Options{}, nil)
//	        return err
//	    })
//	}
//
// A failing body prints its error to stderr and the process exits with the
// failure's status, such as a command's exit code, or 1.
package script
