package interceptors

import (
	"context"

	"github.com/Keksclan/goThunker/dispatch"
	"github.com/Keksclan/goThunker/retry"
)

// Retry returns an interceptor that re-runs failed dispatches according to
// cfg. Every attempt passes through the rest of the chain, so a retried
// thunk runs again from the start.
func Retry(cfg retry.Config) dispatch.Interceptor {
	return func(next dispatch.Func) dispatch.Func {
		return func(ctx context.Context, action any) (any, error) {
			return retry.Do(ctx, cfg, func(ctx context.Context) (any, error) {
				return next(ctx, action)
			})
		}
	}
}
