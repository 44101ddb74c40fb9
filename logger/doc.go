// Package logger provides structured logging for gosh using zerolog.
//
// Logs are diagnostics for the script author, so they default to stderr at
// warn level. Components (process runner, HTTP client, retry engine) log
// through component-scoped loggers:
//
//	log := logger.Get("process")
//	log.Debug("command finished", logger.Fields("status", 0))
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//	  output: "stderr"
package logger
