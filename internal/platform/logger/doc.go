// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, and threads loggers through context.Context so that
// library packages never depend on mutable process-wide logging state.
package logger
