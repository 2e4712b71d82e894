package interceptors

import (
	"context"
	"errors"

	"github.com/Keksclan/goThunker/breaker"
	"github.com/Keksclan/goThunker/dispatch"
)

// ErrCircuitOpen is returned while the breaker rejects dispatches.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Breaker returns an interceptor that rejects dispatches with
// ErrCircuitOpen while b is open and reports every outcome to b.
func Breaker(b *breaker.Breaker) dispatch.Interceptor {
	return func(next dispatch.Func) dispatch.Func {
		return func(ctx context.Context, action any) (any, error) {
			if !b.Allow() {
				return nil, ErrCircuitOpen
			}
			resp, err := next(ctx, action)
			b.Record(err)
			return resp, err
		}
	}
}
