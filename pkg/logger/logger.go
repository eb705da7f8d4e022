package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
)

const (
	LevelDebug string = "DEBUG"
	LevelInfo  string = "INFO"
	LevelWarn  string = "WARN"
	LevelError string = "ERROR"
)

var slogLevels = map[string]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, err error, args ...any)
	GetSlogLogger() *slog.Logger
}

// InitLogger builds a JSON slog logger tagged with the service name and
// hostname. Log lines pick up action/user_id/request_id/ride_id from the
// request context.
func InitLogger(serviceName, logLevel string) Logger {
	lvl, ok := slogLevels[logLevel]
	if !ok {
		lvl = slog.LevelDebug
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	json := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: renameStandardAttrs,
	})

	base := slog.New(&ctxHandler{next: json}).With(
		slog.String("service", serviceName),
		slog.String("hostname", host),
	)

	return &ctxLogger{slog: base}
}

// renameStandardAttrs maps slog's default keys onto the field names the
// rest of the platform's log pipeline expects.
func renameStandardAttrs(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.MessageKey:
		a.Key = "message"
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			a = slog.String("timestamp", t.Format(time.RFC3339))
		}
	}
	return a
}

// ctxHandler copies request-scoped fields out of the context into every
// record before handing it to the wrapped handler.
type ctxHandler struct {
	next slog.Handler
}

func (h *ctxHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl)
}

func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	c, ok := ctx.Value(wrap.LogCtxKey).(wrap.LogCtx)
	if !ok {
		return h.next.Handle(ctx, r)
	}

	for _, f := range []struct{ key, val string }{
		{"action", c.Action},
		{"user_id", c.UserID},
		{"request_id", c.RequestID},
		{"ride_id", c.RideID},
	} {
		if f.val != "" {
			r.AddAttrs(slog.String(f.key, f.val))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{next: h.next.WithGroup(name)}
}

type ctxLogger struct {
	slog *slog.Logger
}

func (l *ctxLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.slog.DebugContext(ctx, msg, args...)
}

func (l *ctxLogger) Info(ctx context.Context, msg string, args ...any) {
	l.slog.InfoContext(ctx, msg, args...)
}

func (l *ctxLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.slog.WarnContext(ctx, msg, args...)
}

func (l *ctxLogger) Error(ctx context.Context, msg string, err error, args ...any) {
	errMsg := "unknown"
	if err != nil {
		errMsg = err.Error()
	}
	attrs := append([]any{slog.String("error", errMsg)}, args...)
	l.slog.ErrorContext(ctx, msg, attrs...)
}

func (l *ctxLogger) GetSlogLogger() *slog.Logger {
	return l.slog
}

// ValidateLogLevel reports whether the given string is a known log level.
func ValidateLogLevel(lvl string) bool {
	_, ok := slogLevels[lvl]
	return ok
}
