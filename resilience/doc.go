// Package resilience provides the retry engine shared by the command runner
// and the HTTP client.
//
// Retry re-invokes a fallible operation with a bounded retry count and a
// constant delay, echoing failures to a console sink:
//
//	out, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), func() (string, error) {
//	    return runner.Run(ctx, "curl -sf http://localhost:8080/health")
//	})
//
// The last error is returned verbatim once the budget is spent, so callers
// can still inspect its concrete type.
package resilience
