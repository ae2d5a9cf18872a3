package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type loggerKey struct{}

// WithLogger attaches logger to ctx.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithFields attaches a child of the ctx logger (or base, when ctx carries
// none) that prefixes every record with keyvals.
func WithFields(ctx context.Context, base *log.Logger, keyvals ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx, base).With(keyvals...))
}

// FromContext returns the logger attached to ctx. Without one it falls back
// to fallback, then to the package default.
func FromContext(ctx context.Context, fallback *log.Logger) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return OrDefault(fallback)
}
