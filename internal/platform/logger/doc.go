// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels (including trace and fatal), and carries
// request-scoped loggers through context.Context.
package logger
