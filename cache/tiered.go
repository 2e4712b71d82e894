package cache

import (
	"bytes"
	"context"
	"time"
)

// DefaultMaxPromotionTTL bounds how long an L2 hit stays in L1.
const DefaultMaxPromotionTTL = time.Minute

// Tiered combines an L1 (in-process) and L2 (Redis) cache. Reads check L1
// first, then L2, then the loader. Writes populate both layers.
type Tiered struct {
	l1           *L1
	l2           *L2
	maxPromotion time.Duration
	flight       flight
}

// NewTiered creates a two-level cache promoting L2 hits for at most
// DefaultMaxPromotionTTL.
func NewTiered(l1 *L1, l2 *L2) *Tiered {
	return NewTieredWithPromotion(l1, l2, DefaultMaxPromotionTTL)
}

// NewTieredWithPromotion is NewTiered with a custom promotion bound. A
// non-positive maxTTL selects DefaultMaxPromotionTTL.
func NewTieredWithPromotion(l1 *L1, l2 *L2, maxTTL time.Duration) *Tiered {
	if maxTTL <= 0 {
		maxTTL = DefaultMaxPromotionTTL
	}
	return &Tiered{l1: l1, l2: l2, maxPromotion: maxTTL}
}

// Get checks L1, then L2.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok, err := t.l1.Get(ctx, key); err != nil || ok {
		return v, ok, err
	}
	v, ok := t.fromL2(ctx, key)
	return v, ok, nil
}

// fromL2 reads key from L2 and promotes a hit into L1 for the entry's
// remaining Redis lifetime, capped at the promotion bound. Keys without an
// expiry get the bound, so deletions made by other processes are picked up
// eventually.
func (t *Tiered) fromL2(ctx context.Context, key string) ([]byte, bool) {
	v, remaining, ok := t.l2.getWithTTL(ctx, key)
	if !ok {
		return nil, false
	}
	ttl := t.maxPromotion
	if remaining > 0 && remaining < ttl {
		ttl = remaining
	}
	_ = t.l1.Set(ctx, key, v, ttl)
	return v, true
}

// Set writes the value to both L2 and L1.
func (t *Tiered) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	_ = t.l2.Set(ctx, key, val, ttl)
	return t.l1.Set(ctx, key, val, ttl)
}

// Delete removes key from both layers.
func (t *Tiered) Delete(ctx context.Context, key string) error {
	_ = t.l2.Delete(ctx, key)
	return t.l1.Delete(ctx, key)
}

// GetOrSet follows the L1 → L2 → loader pattern, deduplicating concurrent
// loads for the same key.
func (t *Tiered) GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) ([]byte, error)) ([]byte, error) {
	if v, ok, _ := t.l1.Get(ctx, key); ok {
		return v, nil
	}
	if v, ok := t.fromL2(ctx, key); ok {
		return bytes.Clone(v), nil
	}
	return t.flight.do(ctx, key, loader, func(v []byte) {
		_ = t.l2.Set(ctx, key, v, ttl)
		_ = t.l1.Set(ctx, key, v, ttl)
	})
}
