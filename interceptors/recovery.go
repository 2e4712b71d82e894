// Package interceptors provides dispatch middleware that does not depend on
// the store state type.
package interceptors

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/Keksclan/goThunker/dispatch"
)

// ErrPanic is matched by every error produced by [Recovery].
var ErrPanic = errors.New("panic during dispatch")

// PanicError carries the value recovered from a panicking dispatch.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrPanic, e.Value)
}

func (e *PanicError) Unwrap() error { return ErrPanic }

// Recovery returns an interceptor that recovers from panics anywhere further
// down the chain (including inside thunks) and returns a *PanicError
// instead of crashing the process.
func Recovery() dispatch.Interceptor {
	return func(next dispatch.Func) dispatch.Func {
		return func(ctx context.Context, action any) (resp any, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = nil
					err = &PanicError{Value: r, Stack: debug.Stack()}
				}
			}()
			return next(ctx, action)
		}
	}
}
