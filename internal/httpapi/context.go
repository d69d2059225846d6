package httpapi

import (
	"context"
)

// serverBaseCtx is a process-level context canceled on shutdown.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by handlers.
// A nil ctx restores context.Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts derives from parent (keeping its values) and is also canceled
// when other is done. The returned cancel func must be called.
func joinContexts(parent, other context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	stop := context.AfterFunc(other, func() { cancel(context.Cause(other)) })
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}
