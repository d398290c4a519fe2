package async

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/m-mizutani/ctxlog"
)

// Tracker runs handlers asynchronously with panic recovery and lets the owner
// wait for them before shutdown. The caller's cancellation does not reach the
// handler. The zero value is ready to use.
type Tracker struct {
	wg sync.WaitGroup
}

// Go dispatches handler and tracks it until it returns
func (t *Tracker) Go(ctx context.Context, handler func(ctx context.Context) error) {
	t.wg.Add(1)
	run(newBackgroundContext(ctx), handler, t.wg.Done)
}

// Wait blocks until every tracked handler has returned
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func run(ctx context.Context, handler func(ctx context.Context) error, done func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				ctxlog.From(ctx).Error("Panic in async handler",
					"recover", r,
					"stack", string(stack),
				)
			}
			done()
		}()

		if err := handler(ctx); err != nil {
			ctxlog.From(ctx).Error("Error in async handler",
				"error", err,
			)
		}
	}()
}

// newBackgroundContext creates a new background context preserving the logger
func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()

	if logger := ctxlog.From(ctx); logger != nil {
		newCtx = ctxlog.With(newCtx, logger)
	}

	return newCtx
}
