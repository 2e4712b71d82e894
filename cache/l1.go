package cache

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// L1 is an in-process cache backed by ristretto.
type L1 struct {
	rc     *ristretto.Cache[string, []byte]
	flight flight
}

// NewL1 creates a new L1 cache holding up to maxCost entries.
func NewL1(maxCost int64) (*L1, error) {
	rc, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &L1{rc: rc}, nil
}

// Get retrieves a copy of the value stored under key.
func (l *L1) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := l.rc.Get(key)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

// Set stores a copy of val. It returns ErrNotStored when ristretto drops the
// write outright. An accepted write is applied before Set returns, but once
// the cache is full the admission policy may still evict or reject it, so a
// later Get can miss.
func (l *L1) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	if !l.rc.SetWithTTL(key, bytes.Clone(val), 1, ttl) {
		return ErrNotStored
	}
	l.rc.Wait()
	return nil
}

// Delete removes key.
func (l *L1) Delete(_ context.Context, key string) error {
	l.rc.Del(key)
	return nil
}

// GetOrSet returns the cached value for key, loading it on a miss.
func (l *L1) GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) ([]byte, error)) ([]byte, error) {
	if v, ok, _ := l.Get(ctx, key); ok {
		return v, nil
	}
	return l.flight.do(ctx, key, loader, func(v []byte) {
		_ = l.Set(ctx, key, v, ttl)
	})
}

// Close stops ristretto's background goroutines.
func (l *L1) Close() {
	l.rc.Close()
}
