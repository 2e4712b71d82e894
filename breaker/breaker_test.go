package breaker

import (
	"errors"
	"testing"
	"time"
)

var errFailed = errors.New("failed")

// fakeClock returns a breaker whose clock only moves when advance is called.
func fakeClock(cfg Config) (*Breaker, func(time.Duration)) {
	b := New(cfg)
	now := time.Unix(1_700_000_000, 0)
	b.nowFunc = func() time.Time { return now }
	return b, func(d time.Duration) { now = now.Add(d) }
}

func TestTripsAfterThreshold(t *testing.T) {
	b, _ := fakeClock(Config{FailureThreshold: 3, OpenTimeout: time.Second, HalfOpenMaxSuccess: 1})

	b.Record(errFailed)
	b.Record(errFailed)
	if s := b.State(); s != Closed {
		t.Fatalf("expected closed after 2 failures, got %s", s)
	}

	b.Record(errFailed)
	if s := b.State(); s != Open {
		t.Fatalf("expected open after 3 failures, got %s", s)
	}
	if b.Allow() {
		t.Fatal("open breaker must reject dispatches")
	}
}

func TestSuccessClearsFailureRun(t *testing.T) {
	b, _ := fakeClock(Config{FailureThreshold: 2, OpenTimeout: time.Second, HalfOpenMaxSuccess: 1})

	b.Record(errFailed)
	b.Record(nil)
	b.Record(errFailed)
	if s := b.State(); s != Closed {
		t.Fatalf("non-consecutive failures must not trip, got %s", s)
	}
}

func TestCoolDownThenProbe(t *testing.T) {
	b, advance := fakeClock(Config{FailureThreshold: 1, OpenTimeout: 5 * time.Second, HalfOpenMaxSuccess: 2})

	b.Record(errFailed)
	advance(4 * time.Second)
	if b.Allow() {
		t.Fatal("expected rejection before the cool-down elapsed")
	}

	advance(time.Second)
	if s := b.State(); s != HalfOpen {
		t.Fatalf("expected half-open after cool-down, got %s", s)
	}

	b.Record(nil)
	if s := b.State(); s != HalfOpen {
		t.Fatalf("one probe of two must keep it half-open, got %s", s)
	}
	b.Record(nil)
	if s := b.State(); s != Closed {
		t.Fatalf("expected closed after successful probes, got %s", s)
	}
}

func TestProbeFailureReopens(t *testing.T) {
	b, advance := fakeClock(Config{FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenMaxSuccess: 1})

	b.Record(errFailed)
	advance(time.Second)
	if !b.Allow() {
		t.Fatal("expected a probe to be allowed")
	}
	b.Record(errFailed)
	if s := b.State(); s != Open {
		t.Fatalf("expected open after failed probe, got %s", s)
	}
}

func TestHalfOpenProbeLimit(t *testing.T) {
	b, advance := fakeClock(Config{FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenMaxSuccess: 1})

	b.Record(errFailed)
	advance(time.Second)
	b.mu.Lock()
	b.refresh()
	b.successes = 1
	b.mu.Unlock()

	if b.Allow() {
		t.Fatal("no probe slots should remain")
	}
}

func TestReset(t *testing.T) {
	b, _ := fakeClock(Config{FailureThreshold: 1})
	b.Record(errFailed)
	b.Reset()
	if s := b.State(); s != Closed || !b.Allow() {
		t.Fatalf("expected closed breaker after Reset, got %s", s)
	}
}

func TestZeroConfigUsesDefaults(t *testing.T) {
	b := New(Config{})
	if b.cfg != DefaultConfig() {
		t.Fatalf("got %+v, want %+v", b.cfg, DefaultConfig())
	}
}

func TestHalfOpenCountsInFlightProbes(t *testing.T) {
	b, advance := fakeClock(Config{FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenMaxSuccess: 2})

	b.Record(errFailed)
	advance(time.Second)

	if !b.Allow() || !b.Allow() {
		t.Fatal("expected two probe slots")
	}
	if b.Allow() {
		t.Fatal("a third concurrent probe must be rejected before any outcome is recorded")
	}

	b.Record(nil)
	if b.Allow() {
		t.Fatal("one success plus one probe in flight fill both slots")
	}
	b.Record(nil)
	if s := b.State(); s != Closed {
		t.Fatalf("expected closed after two successful probes, got %s", s)
	}
}
