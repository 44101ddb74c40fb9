// Package console provides the output sink scripts print through.
//
// A Console writes plain or coloured lines; the Discard, LogSink and
// Recorder sinks cover silent runs, log forwarding and tests.
package console
