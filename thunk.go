package gothunker

import (
	"context"
	"maps"

	"github.com/Keksclan/goThunker/dispatch"
)

// Extras holds the extra capabilities handed to a thunk next to Dispatch and
// GetState.
type Extras map[string]any

// Get returns the extra stored under key.
func (e Extras) Get(key string) (any, bool) {
	v, ok := e[key]
	return v, ok
}

// Extra returns the extra stored under key asserted to T. The boolean is
// false when the key is missing or holds a value of another type.
func Extra[T any](e Extras, key string) (T, bool) {
	v, ok := e[key].(T)
	return v, ok
}

// mergeExtras shallow-merges sources into a fresh map. Later sources win on
// key collisions. The result is never nil.
func mergeExtras(sources ...Extras) Extras {
	n := 0
	for _, s := range sources {
		n += len(s)
	}
	out := make(Extras, n)
	for _, s := range sources {
		maps.Copy(out, s)
	}
	return out
}

// Args is the single record argument of the default calling convention.
// Store capabilities are embedded so thunks read args.Dispatch and
// args.GetState directly.
type Args[S any] struct {
	dispatch.API[S]
	Extras Extras
}

// Thunk is a deferred computation dispatched in place of a plain action,
// invoked with the record calling convention.
type Thunk[S any] func(ctx context.Context, args Args[S]) (any, error)

// CompatThunk is a thunk invoked with the positional calling convention
// (dispatch, getState, extras). It is only recognized in compatibility mode.
type CompatThunk[S any] func(ctx context.Context, dispatchFn dispatch.Func, getState dispatch.GetStateFunc[S], extras Extras) (any, error)
