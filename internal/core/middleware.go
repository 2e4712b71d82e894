package core

import (
	"cmp"
	"slices"
)

// entry represents a single middleware with a deterministic execution
// order. Lower Order values run first (outermost).
type entry[M any] struct {
	M     M
	Order int
}

// MiddlewareBuilder collects middleware entries and produces a slice sorted
// by order, ready for chaining.
type MiddlewareBuilder[M any] struct {
	entries []entry[M]
}

// Add registers a middleware with the given order.
func (b *MiddlewareBuilder[M]) Add(order int, m M) {
	b.entries = append(b.entries, entry[M]{M: m, Order: order})
}

// Len reports how many entries have been registered.
func (b *MiddlewareBuilder[M]) Len() int {
	return len(b.entries)
}

// Build sorts the collected middleware by Order (stable) and returns them.
// Entries sharing an order keep their registration order.
func (b *MiddlewareBuilder[M]) Build() []M {
	sorted := slices.Clone(b.entries)
	slices.SortStableFunc(sorted, func(a, c entry[M]) int {
		return cmp.Compare(a.Order, c.Order)
	})

	out := make([]M, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, e.M)
	}
	return out
}

// Convert returns a builder holding f applied to every entry of b, with
// orders preserved.
func Convert[M, N any](b *MiddlewareBuilder[M], f func(M) N) *MiddlewareBuilder[N] {
	out := &MiddlewareBuilder[N]{entries: make([]entry[N], 0, len(b.entries))}
	for _, e := range b.entries {
		out.entries = append(out.entries, entry[N]{M: f(e.M), Order: e.Order})
	}
	return out
}
