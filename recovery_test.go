package gothunker

import (
	"context"
	"errors"
	"testing"

	"github.com/Keksclan/goThunker/interceptors"
)

func TestWithRecoveryReturnsPanicErrorFromThunk(t *testing.T) {
	st, _ := newStack(t, WithRecovery())

	resp, err := st.Dispatch(t.Context(), func(context.Context, Args[counterState]) (any, error) {
		panic("boom")
	})
	if resp != nil {
		t.Fatalf("expected nil response, got %v", resp)
	}

	var pe *interceptors.PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *interceptors.PanicError, got %v", err)
	}
	if pe.Value != "boom" {
		t.Fatalf("expected %q, got %v", "boom", pe.Value)
	}
	if !IsRejected(err) {
		t.Fatal("IsRejected must report a recovered panic")
	}
}

func TestWithRecoveryCoversBaseDispatch(t *testing.T) {
	base := func(context.Context, any) (any, error) { panic(42) }
	st, err := NewStack(func() counterState { return counterState{} }, base, WithRecovery())
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}

	_, err = st.Dispatch(t.Context(), incr{By: 1})
	if !errors.Is(err, interceptors.ErrPanic) {
		t.Fatalf("expected ErrPanic, got %v", err)
	}
}

func TestWithRecoveryPassthroughOnNoPanic(t *testing.T) {
	st, _ := newStack(t, WithRecovery())

	resp, err := st.Dispatch(t.Context(), incr{By: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != (incr{By: 1}) {
		t.Fatalf("expected incr{1}, got %v", resp)
	}
}

func TestWithoutRecoveryPanicsPropagate(t *testing.T) {
	st, _ := newStack(t)

	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("expected panic boom, got %v", r)
		}
	}()
	_, _ = st.Dispatch(t.Context(), func(context.Context, Args[counterState]) (any, error) {
		panic("boom")
	})
	t.Fatal("dispatch returned without panicking")
}

func TestDefaultOptionsIncludeRecovery(t *testing.T) {
	var cfg config
	for _, o := range DefaultOptions() {
		o(&cfg)
	}
	if cfg.middlewares.Len() != 2 {
		t.Fatalf("expected 2 interceptors, got %d", cfg.middlewares.Len())
	}
	if DefaultConfig() != (Config{}) {
		t.Fatalf("DefaultConfig() = %+v, want zero", DefaultConfig())
	}
}
