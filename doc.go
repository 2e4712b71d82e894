// Package gothunker provides a thunk middleware for dispatch pipelines:
// dispatching a function instead of a plain action defers the work to that
// function, which receives the store's Dispatch and GetState together with
// a set of extra arguments.
//
// Extras come from two places. Static extras are fixed when the middleware
// is built ([WithExtraArguments]). Enhanced extras are produced by
// factories ([WithExtraArgumentsToEnhance]) that are evaluated against the
// current store capabilities on every thunk dispatch, and override static
// extras of the same name.
//
// Two calling conventions are supported. By default a thunk is a [Thunk]
// taking a single [Args] record. In compatibility mode it is a
// [CompatThunk] taking dispatch, getState and extras positionally.
//
// [New] returns the bare middleware for hosts that compose their own chain.
// [NewStack] wraps it with the optional recovery, dispatch id, tracing,
// metrics, logging, rate limiting, circuit breaking and cache layers.
package gothunker
