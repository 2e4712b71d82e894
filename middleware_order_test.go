package gothunker

import (
	"context"
	"testing"

	"github.com/Keksclan/goThunker/dispatch"
)

func tagInterceptor(tag string, log *[]string) dispatch.Interceptor {
	return func(next dispatch.Func) dispatch.Func {
		return func(ctx context.Context, action any) (any, error) {
			*log = append(*log, tag)
			return next(ctx, action)
		}
	}
}

func assertLog(t *testing.T, log, expected []string) {
	t.Helper()
	if len(log) != len(expected) {
		t.Fatalf("log length mismatch: got %v, want %v", log, expected)
	}
	for i := range expected {
		if log[i] != expected[i] {
			t.Fatalf("log[%d] = %q, want %q\nfull log: %v", i, log[i], expected[i], log)
		}
	}
}

func TestMiddlewareOrderDeterminesExecution(t *testing.T) {
	var log []string
	base := func(_ context.Context, action any) (any, error) {
		log = append(log, "base")
		return action, nil
	}

	// Register in reverse order; Order values should sort them correctly.
	st, err := NewStack(func() counterState { return counterState{} }, base,
		WithInterceptor(300, tagInterceptor("C", &log)),
		WithInterceptor(100, tagInterceptor("A", &log)),
		WithInterceptor(200, tagInterceptor("B", &log)),
	)
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}

	if _, err := st.Dispatch(t.Context(), "action"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertLog(t, log, []string{"A", "B", "C", "base"})
}

func TestMiddlewareOrderStableForSameOrder(t *testing.T) {
	var log []string
	base := func(_ context.Context, action any) (any, error) {
		log = append(log, "base")
		return action, nil
	}

	// Same order: registration order should be preserved (stable sort).
	st, err := NewStack(func() counterState { return counterState{} }, base,
		WithInterceptor(100, tagInterceptor("first", &log)),
		WithInterceptor(100, tagInterceptor("second", &log)),
		WithInterceptor(100, tagInterceptor("third", &log)),
	)
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}

	if _, err := st.Dispatch(t.Context(), "action"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertLog(t, log, []string{"first", "second", "third", "base"})
}

func TestMiddlewareOrderThunkIsInnermostByDefault(t *testing.T) {
	var log []string
	base := func(_ context.Context, action any) (any, error) {
		log = append(log, "base")
		return action, nil
	}

	st, err := NewStack(func() counterState { return counterState{} }, base,
		WithInterceptor(OrderThunk+1, tagInterceptor("after-thunk", &log)),
		WithInterceptor(OrderThunk-1, tagInterceptor("before-thunk", &log)),
	)
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}

	_, err = st.Dispatch(t.Context(), func(context.Context, Args[counterState]) (any, error) {
		log = append(log, "thunk")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The thunk short-circuits, so nothing past OrderThunk sees it.
	assertLog(t, log, []string{"before-thunk", "thunk"})

	log = nil
	if _, err := st.Dispatch(t.Context(), "action"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertLog(t, log, []string{"before-thunk", "after-thunk", "base"})
}
