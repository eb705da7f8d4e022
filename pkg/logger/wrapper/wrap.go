package wrap

import (
	"context"
	"errors"
)

// Error attaches the current LogCtx to err so the logger can emit the
// request fields even when the error surfaces far from the handler.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	c, fresh := ctx.Value(LogCtxKey).(LogCtx)

	// Already carrying a LogCtx: refresh it instead of re-wrapping.
	var wrapped *errorWithLogCtx
	if errors.As(err, &wrapped) {
		if fresh {
			wrapped.logCtx = c
		}
		return wrapped
	}

	return &errorWithLogCtx{err: err, logCtx: c}
}
