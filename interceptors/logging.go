package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/Keksclan/goThunker/contextx"
	"github.com/Keksclan/goThunker/dispatch"
)

// Logging returns an interceptor that logs every dispatch to logger.
// Successful dispatches are logged at debug level, failed ones at error
// level together with the error.
func Logging(logger *slog.Logger) dispatch.Interceptor {
	return func(next dispatch.Func) dispatch.Func {
		return func(ctx context.Context, action any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, action)

			attrs := []slog.Attr{
				slog.String("type", dispatch.TypeOf(action)),
				slog.String("kind", dispatch.KindOf(action)),
				slog.Duration("duration", time.Since(start)),
			}
			if id := contextx.DispatchIDFromContext(ctx); id != "" {
				attrs = append(attrs,
					slog.String("dispatch_id", id),
					slog.Int("depth", contextx.DepthFromContext(ctx)),
				)
			}

			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
				logger.LogAttrs(ctx, slog.LevelError, "dispatch failed", attrs...)
				return resp, err
			}
			logger.LogAttrs(ctx, slog.LevelDebug, "dispatched", attrs...)
			return resp, nil
		}
	}
}
