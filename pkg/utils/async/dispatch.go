package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs handler in a new goroutine, detached from the cancellation of ctx.
//
// The logger stored in ctx is carried over. Panics are recovered and logged
// with their stack; a returned error is logged with the task name.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	newCtx := detach(ctx)

	go func() {
		logger := ctxlog.From(newCtx).With("task", name)

		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in async task",
					"recover", r,
					"stack", string(debug.Stack()))
			}
		}()

		if err := handler(newCtx); err != nil {
			logger.Error("async task failed", "error", err)
		}
	}()
}

// detach returns a background context that keeps the logger of ctx
func detach(ctx context.Context) context.Context {
	return ctxlog.With(context.Background(), ctxlog.From(ctx))
}
