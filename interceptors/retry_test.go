package interceptors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Keksclan/goThunker/retry"
)

func TestRetry_ReDispatchesRetryableFailures(t *testing.T) {
	errBusy := errors.New("busy")
	calls := 0
	handler := func(_ context.Context, action any) (any, error) {
		calls++
		if calls < 2 {
			return nil, errBusy
		}
		return action, nil
	}

	ic := Retry(retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond, Retryable: retry.On(errBusy)})
	resp, err := ic(handler)(t.Context(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "a" || calls != 2 {
		t.Fatalf("got resp=%v calls=%d, want a after 2 calls", resp, calls)
	}
}

func TestRetry_LeavesOtherErrorsAlone(t *testing.T) {
	sentinel := errors.New("bad input")
	calls := 0
	handler := func(context.Context, any) (any, error) {
		calls++
		return nil, sentinel
	}

	ic := Retry(retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond, Retryable: retry.On(ErrRateLimited)})
	if _, err := ic(handler)(t.Context(), "a"); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetry_PropagatesPartialResult(t *testing.T) {
	sentinel := errors.New("half done")
	handler := func(context.Context, any) (any, error) { return "partial", sentinel }

	ic := Retry(retry.Config{MaxAttempts: 2, BaseDelay: time.Millisecond, Retryable: retry.On(sentinel)})
	resp, err := ic(handler)(t.Context(), "a")
	if resp != "partial" || !errors.Is(err, sentinel) {
		t.Fatalf("got (%v, %v), want (partial, half done)", resp, err)
	}
}
