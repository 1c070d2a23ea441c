package logutil

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type (
	key byte
)

var (
	loggerKey = key(1)
)

// WithLogger returns a copy of ctx carrying logger. httpserver.LogRequests
// uses it to hand every request a logger tagged with the request id.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetOrDefault returns the logger stored by WithLogger, falling back to
// the global zerolog logger when ctx is nil or carries none. Handlers
// call it with r.Context() so their events share the request id.
func GetOrDefault(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return log.Logger
	}
	v := ctx.Value(loggerKey)
	if v == nil {
		return log.Logger
	}
	return v.(zerolog.Logger)
}

// New returns a json logger writing to out with every PII field masked.
func New(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(NewRedactingWriter(out, PIIFields...)).
		Level(level).
		With().
		Timestamp().
		Logger()
}
