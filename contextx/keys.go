// Package contextx carries per-dispatch values through context.Context.
package contextx

// contextKey is an unexported type used as context key to avoid collisions
// with keys defined in other packages.
type contextKey int

const (
	dispatchIDKey contextKey = iota
	depthKey
)
