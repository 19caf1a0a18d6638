// Package logger provides the process-wide structured logger.
//
// It wraps zap behind a small surface: Init() once in main, L() anywhere,
// From(ctx) inside request handling. The HTTP logging middleware injects a
// request-scoped logger (request_id, method, path) into the context so that
// services and stores log with request correlation for free.
//
// Field helpers (logger.UserID, logger.Err, ...) keep key names consistent
// across the codebase.
package logger
