// Package dispatch defines the dispatch function, store capabilities and
// middleware shapes shared by every package in goThunker. It has no
// dependencies on the rest of the module.
package dispatch

import (
	"context"
	"errors"
)

// ErrDispatchDuringSetup is returned when a middleware calls API.Dispatch
// while [Apply] is still composing the chain.
var ErrDispatchDuringSetup = errors.New("dispatch: dispatching while constructing the middleware chain is not allowed")

// Func dispatches an action and returns whatever the chain produced for it.
type Func func(ctx context.Context, action any) (any, error)

// GetStateFunc returns the current state of the host store.
type GetStateFunc[S any] func() S

// API is the pair of store capabilities handed to every middleware. The
// values are supplied by the host store and only forwarded by this module.
type API[S any] struct {
	Dispatch Func
	GetState GetStateFunc[S]
}

// Middleware is bound to the store capabilities first, then to the next
// handler in the chain, and finally invoked once per dispatched action.
type Middleware[S any] func(api API[S]) func(next Func) Func

// Interceptor is a middleware that does not need the store capabilities.
type Interceptor func(next Func) Func

// Lift adapts an Interceptor to a Middleware for any state type.
func Lift[S any](ic Interceptor) Middleware[S] {
	return func(API[S]) func(next Func) Func {
		return ic
	}
}

// Chain composes middlewares from left to right, i.e.
// Chain(A, B)(api)(next) => A(api)(B(api)(next)).
func Chain[S any](mw ...Middleware[S]) Middleware[S] {
	return func(api API[S]) func(next Func) Func {
		return func(next Func) Func {
			for i := len(mw) - 1; i >= 0; i-- {
				next = mw[i](api)(next)
			}
			return next
		}
	}
}

// Apply wraps base with the middleware chain and returns the composed
// dispatch function. The API.Dispatch passed to each middleware re-enters
// the whole chain, so actions dispatched from inside a thunk are seen by
// every middleware again.
func Apply[S any](getState GetStateFunc[S], base Func, mw ...Middleware[S]) Func {
	var composed Func
	api := API[S]{
		Dispatch: func(ctx context.Context, action any) (any, error) {
			if composed == nil {
				return nil, ErrDispatchDuringSetup
			}
			return composed(ctx, action)
		},
		GetState: getState,
	}
	if len(mw) == 0 {
		composed = base
		return composed
	}
	composed = Chain(mw...)(api)(base)
	return composed
}
