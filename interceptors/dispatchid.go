package interceptors

import (
	"context"

	"github.com/Keksclan/goThunker/contextx"
	"github.com/Keksclan/goThunker/dispatch"
	"github.com/google/uuid"
)

// ensureDispatchID returns ctx enriched with a dispatch ID when it has none.
// A context that already carries one belongs to a nested dispatch, so its
// depth is incremented instead.
func ensureDispatchID(ctx context.Context) context.Context {
	if contextx.DispatchIDFromContext(ctx) == "" {
		ctx = contextx.WithDispatchID(ctx, uuid.NewString())
		return contextx.WithDepth(ctx, 0)
	}
	return contextx.WithDepth(ctx, contextx.DepthFromContext(ctx)+1)
}

// DispatchID returns an interceptor that ensures a dispatch ID and nesting
// depth are present in the context.
func DispatchID() dispatch.Interceptor {
	return func(next dispatch.Func) dispatch.Func {
		return func(ctx context.Context, action any) (any, error) {
			return next(ensureDispatchID(ctx), action)
		}
	}
}
