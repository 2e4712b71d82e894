package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// L2 is a Redis-backed cache layer. Reads and writes fail soft: when Redis
// is unavailable a read is a miss and a write is dropped.
type L2 struct {
	rdb    *redis.Client
	prefix string
	flight flight
}

// NewL2 creates a new Redis-backed L2 cache.
func NewL2(addr, password string, db int) *L2 {
	return NewL2WithPrefix(addr, password, db, "")
}

// NewL2WithPrefix is NewL2 with every key stored under prefix.
func NewL2WithPrefix(addr, password string, db int, prefix string) *L2 {
	return NewL2FromClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), prefix)
}

// NewL2FromClient wraps an existing client. Every key is stored under
// prefix, so several stores can share one Redis database.
func NewL2FromClient(rdb *redis.Client, prefix string) *L2 {
	return &L2{rdb: rdb, prefix: prefix}
}

func (l *L2) key(k string) string { return l.prefix + k }

// Get retrieves a value by key. Returns (nil, false, nil) on a miss or when
// Redis is unreachable.
func (l *L2) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := l.rdb.Get(ctx, l.key(key)).Bytes()
	if err != nil {
		// redis.Nil is a miss; connection errors are treated the same way.
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores a value under key with the given TTL. Errors are discarded.
func (l *L2) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	_ = l.rdb.Set(ctx, l.key(key), val, ttl).Err()
	return nil
}

// Delete removes key. Errors are discarded.
func (l *L2) Delete(ctx context.Context, key string) error {
	_ = l.rdb.Del(ctx, l.key(key)).Err()
	return nil
}

// GetOrSet returns the cached value for key, loading it on a miss.
func (l *L2) GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) ([]byte, error)) ([]byte, error) {
	if v, ok, _ := l.Get(ctx, key); ok {
		return v, nil
	}
	return l.flight.do(ctx, key, loader, func(v []byte) {
		_ = l.Set(ctx, key, v, ttl)
	})
}

// getWithTTL is Get that also reports the remaining lifetime of the entry.
// A zero TTL means the key does not expire.
func (l *L2) getWithTTL(ctx context.Context, key string) ([]byte, time.Duration, bool) {
	pipe := l.rdb.Pipeline()
	get := pipe.Get(ctx, l.key(key))
	pttl := pipe.PTTL(ctx, l.key(key))
	if _, err := pipe.Exec(ctx); err != nil {
		// redis.Nil from GET is a miss; connection errors are treated the same way.
		return nil, 0, false
	}
	val, err := get.Bytes()
	if err != nil {
		return nil, 0, false
	}
	return val, max(pttl.Val(), 0), true
}

// Ping checks the Redis connection.
func (l *L2) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (l *L2) Close() error {
	return l.rdb.Close()
}
