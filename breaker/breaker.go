// Package breaker stops dispatches after a run of consecutive failures and
// lets a few probes through once a cool-down has elapsed.
//
// States:
//   - Closed: dispatches flow; consecutive failures are counted.
//   - Open: dispatches are rejected until OpenTimeout has elapsed.
//   - HalfOpen: up to HalfOpenMaxSuccess probes may pass, counting the ones
//     still in flight. That many successes close the breaker again and a
//     single failure reopens it.
package breaker

import (
	"sync"
	"time"
)

// State is the current position of the breaker.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	}
	return "unknown"
}

// Config holds the breaker thresholds. Zero fields fall back to
// [DefaultConfig].
type Config struct {
	// FailureThreshold is the number of consecutive failed dispatches that
	// trips a closed breaker.
	FailureThreshold int

	// OpenTimeout is how long the breaker rejects dispatches before probing.
	OpenTimeout time.Duration

	// HalfOpenMaxSuccess is the number of successful probes needed to close.
	HalfOpenMaxSuccess int
}

// DefaultConfig returns 5 failures, a 30s cool-down and a single probe.
func DefaultConfig() Config {
	return Config{
		FailureThreshold:   5,
		OpenTimeout:        30 * time.Second,
		HalfOpenMaxSuccess: 1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = d.OpenTimeout
	}
	if c.HalfOpenMaxSuccess <= 0 {
		c.HalfOpenMaxSuccess = d.HalfOpenMaxSuccess
	}
	return c
}

// Breaker is safe for concurrent use.
type Breaker struct {
	mu  sync.Mutex
	cfg Config

	state     State
	failures  int
	successes int
	probes    int // allowed in HalfOpen, outcome not yet recorded
	openedAt  time.Time
	nowFunc   func() time.Time
}

// New creates a closed Breaker.
func New(cfg Config) *Breaker {
	return &Breaker{cfg: cfg.withDefaults(), nowFunc: time.Now}
}

// State returns the current state, moving Open to HalfOpen when the
// cool-down has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()
	return b.state
}

// Allow reports whether a dispatch may proceed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()

	switch b.state {
	case Closed:
		return true
	case HalfOpen:
		if b.successes+b.probes >= b.cfg.HalfOpenMaxSuccess {
			return false
		}
		b.probes++
		return true
	}
	return false
}

// Record feeds the outcome of a dispatch into the breaker.
func (b *Breaker) Record(err error) {
	if err != nil {
		b.OnFailure()
		return
	}
	b.OnSuccess()
}

// OnSuccess records a successful dispatch.
func (b *Breaker) OnSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		b.failures = 0
	case HalfOpen:
		b.probes = max(b.probes-1, 0)
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxSuccess {
			b.close()
		}
	}
}

// OnFailure records a failed dispatch.
func (b *Breaker) OnFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.open()
		}
	case HalfOpen:
		b.open()
	}
}

// Reset closes the breaker and clears its counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.close()
}

// refresh must be called with b.mu held.
func (b *Breaker) refresh() {
	if b.state == Open && b.nowFunc().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		b.state = HalfOpen
		b.successes = 0
		b.probes = 0
	}
}

func (b *Breaker) open() {
	b.state = Open
	b.openedAt = b.nowFunc()
	b.successes = 0
	b.probes = 0
}

func (b *Breaker) close() {
	b.state = Closed
	b.failures = 0
	b.successes = 0
	b.probes = 0
}
