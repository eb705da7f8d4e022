package wrap

import (
	"context"
	"errors"
)

// errorWithLogCtx wraps an error together with the LogCtx that was
// current at the point of failure.
type errorWithLogCtx struct {
	err    error
	logCtx LogCtx
}

func (e *errorWithLogCtx) Error() string {
	return e.err.Error()
}

// Unwrap allows unwrapping the original error.
func (e *errorWithLogCtx) Unwrap() error {
	return e.err
}

// ErrorCtx extracts the LogCtx from an error if it carries one, so the
// caller's log lines keep the fields from where the error originated.
func ErrorCtx(ctx context.Context, err error) context.Context {
	var e *errorWithLogCtx
	if errors.As(err, &e) && e != nil {
		return context.WithValue(ctx, LogCtxKey, e.logCtx)
	}
	return ctx
}
