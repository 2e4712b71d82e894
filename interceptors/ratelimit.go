package interceptors

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Keksclan/goThunker/dispatch"
	"github.com/Keksclan/goThunker/policy"
	"github.com/Keksclan/goThunker/ratelimit"
)

// ErrRateLimited is returned when a dispatch is rejected by a limiter.
var ErrRateLimited = errors.New("rate limit exceeded")

// rateLimitState holds the global limiter, an optional policy resolver, and a
// cache of per-group limiters created lazily from resolved policies.
type rateLimitState struct {
	global   *ratelimit.Limiter
	resolver *policy.Resolver

	mu     sync.Mutex
	groups map[string]*ratelimit.Limiter
}

// limiterFor returns the per-group limiter when the resolver matches
// actionType to a group with a RateLimit policy. Otherwise it returns the
// global limiter, which may be nil.
func (s *rateLimitState) limiterFor(actionType string) *ratelimit.Limiter {
	if s.resolver != nil {
		if name, pol, ok := s.resolver.Resolve(actionType); ok && pol != nil && pol.RateLimit != nil {
			return s.groupLimiter(name, pol.RateLimit)
		}
	}
	return s.global
}

// groupLimiter returns (or lazily creates) the limiter of a resolved group.
func (s *rateLimitState) groupLimiter(name string, rl *policy.RateLimitRule) *ratelimit.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.groups[name]; ok {
		return l
	}
	l := ratelimit.NewWindowLimiter(rl.Rate, rl.Window)
	s.groups[name] = l
	return l
}

// RateLimit returns an interceptor that rejects dispatches with
// ErrRateLimited once the applicable limiter is exhausted. Actions are
// matched against r by [dispatch.TypeOf]; thunks resolve as "thunk". When no
// group applies the global limiter l is used; a nil l lets those through.
func RateLimit(l *ratelimit.Limiter, r *policy.Resolver) dispatch.Interceptor {
	st := &rateLimitState{global: l, resolver: r, groups: make(map[string]*ratelimit.Limiter)}
	return func(next dispatch.Func) dispatch.Func {
		return func(ctx context.Context, action any) (any, error) {
			actionType := dispatch.TypeOf(action)
			if lim := st.limiterFor(actionType); lim != nil && !lim.Allow() {
				return nil, fmt.Errorf("%w: %s", ErrRateLimited, actionType)
			}
			return next(ctx, action)
		}
	}
}
