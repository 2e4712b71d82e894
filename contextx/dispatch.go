package contextx

import "context"

// WithDispatchID returns a derived context that carries the given dispatch
// ID. Nested dispatches made from a thunk share the ID of the outermost one.
func WithDispatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, dispatchIDKey, id)
}

// DispatchIDFromContext extracts the dispatch ID stored in ctx.
// It returns an empty string when no dispatch ID is present.
func DispatchIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(dispatchIDKey).(string)
	return id
}

// WithDepth records how deeply the current dispatch is nested. The
// outermost dispatch has depth 0.
func WithDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, depthKey, depth)
}

// DepthFromContext returns the nesting depth stored in ctx, or 0.
func DepthFromContext(ctx context.Context) int {
	d, _ := ctx.Value(depthKey).(int)
	return d
}
