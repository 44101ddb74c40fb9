// Package observability provides OpenTelemetry tracing and metrics for
// command runs, HTTP requests and retries.
//
// Nothing is exported unless Init is called with an enabled Config:
//
//	shutdown, err := observability.Init(ctx, cfg.Observability)
//	defer shutdown(ctx)
//
// Operations:
//
//	ctx, op := observability.StartOperation(ctx, observability.SpanCommandRun)
//	defer op.End("ok", nil, "")
//
// Metrics:
//
//	observability.Instruments().RecordCommand(ctx, "ok", 0, op.Duration())
package observability
