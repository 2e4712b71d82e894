package gothunker

import (
	"context"
	"fmt"

	"github.com/Keksclan/goThunker/dispatch"
)

// New builds the thunk middleware.
//
// Values that are not functions pass to next untouched. Functions are
// invoked as thunks with the store capabilities and the merged extras, and
// their result is returned to the dispatcher without reaching next (unless
// the middleware is continuous). Only the thunk options apply; interceptor
// and cache options are ignored outside of NewStack.
//
// New cannot return an error. When an option fails, such as WithSettings
// with an unknown log level, every dispatch through the middleware returns
// that error. Call Validate to catch it at construction.
func New[S any](opts ...Option) dispatch.Middleware[S] {
	cfg := newConfig(opts)
	if cfg.err != nil {
		return failingMiddleware[S](cfg.err)
	}
	return thunkMiddleware[S](cfg.extraArguments, cfg.toEnhance, cfg.thunk)
}

func failingMiddleware[S any](err error) dispatch.Middleware[S] {
	return func(dispatch.API[S]) func(next dispatch.Func) dispatch.Func {
		return func(dispatch.Func) dispatch.Func {
			return func(context.Context, any) (any, error) {
				return nil, err
			}
		}
	}
}

// Default is New without options.
func Default[S any]() dispatch.Middleware[S] {
	return New[S]()
}

// Validate reports option errors and enhancers that would fail on the first
// thunk dispatch, without dispatching anything.
func Validate[S any](opts ...Option) error {
	cfg := newConfig(opts)
	if cfg.err != nil {
		return cfg.err
	}
	if len(cfg.toEnhance) == 0 {
		return nil
	}
	_, _, err := validateEnhancers[S](cfg.toEnhance)
	return err
}

func thunkMiddleware[S any](extraArguments Extras, toEnhance map[string]any, conf Config) dispatch.Middleware[S] {
	return func(api dispatch.API[S]) func(next dispatch.Func) dispatch.Func {
		return func(next dispatch.Func) dispatch.Func {
			return func(ctx context.Context, action any) (any, error) {
				if !dispatch.IsFunc(action) {
					return next(ctx, action)
				}

				invoke, err := bindThunk[S](action, conf.CompatibilityMode)
				if err != nil {
					return nil, err
				}

				enhanced, err := EnhanceArguments(toEnhance, api)
				if err != nil {
					return nil, err
				}

				result, err := invoke(ctx, api, mergeExtras(extraArguments, enhanced))
				if err != nil || !conf.Continuous || result == nil {
					return result, err
				}
				return next(ctx, result)
			}
		}
	}
}

type invoker[S any] func(ctx context.Context, api dispatch.API[S], extras Extras) (any, error)

// bindThunk adapts the dispatched function to the active calling convention.
func bindThunk[S any](action any, compat bool) (invoker[S], error) {
	var fn invoker[S]
	if compat {
		var th CompatThunk[S]
		switch f := action.(type) {
		case CompatThunk[S]:
			th = f
		case func(context.Context, dispatch.Func, dispatch.GetStateFunc[S], Extras) (any, error):
			th = f
		case func(context.Context, dispatch.Func, dispatch.GetStateFunc[S], map[string]any) (any, error):
			if f != nil {
				th = func(ctx context.Context, d dispatch.Func, gs dispatch.GetStateFunc[S], e Extras) (any, error) {
					return f(ctx, d, gs, e)
				}
			}
		}
		if th != nil {
			fn = func(ctx context.Context, api dispatch.API[S], extras Extras) (any, error) {
				return th(ctx, api.Dispatch, api.GetState, extras)
			}
		}
	} else {
		var th Thunk[S]
		switch f := action.(type) {
		case Thunk[S]:
			th = f
		case func(context.Context, Args[S]) (any, error):
			th = f
		}
		if th != nil {
			fn = func(ctx context.Context, api dispatch.API[S], extras Extras) (any, error) {
				return th(ctx, Args[S]{API: api, Extras: extras})
			}
		}
	}

	if fn == nil {
		return nil, fmt.Errorf("gothunker: %w: %T (compatibility mode %t)", ErrUnsupportedThunk, action, compat)
	}
	return fn, nil
}
