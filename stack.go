package gothunker

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Keksclan/goThunker/breaker"
	"github.com/Keksclan/goThunker/cache"
	"github.com/Keksclan/goThunker/dispatch"
	"github.com/Keksclan/goThunker/interceptors"
	"github.com/Keksclan/goThunker/internal/core"
	"github.com/Keksclan/goThunker/metrics"
	"github.com/Keksclan/goThunker/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stack is a dispatch function composed of the thunk middleware and the
// optional interceptors (recovery, dispatch ids, tracing, metrics, logging,
// rate limiting, circuit breaking) around a host's base dispatch.
//
//	st, err := gothunker.NewStack(store.State, store.Reduce,
//		gothunker.WithRecovery(),
//		gothunker.WithLogger(slog.Default()),
//		gothunker.WithExtraArgument("api", client),
//	)
//	res, err := st.Dispatch(ctx, fetchUser(42))
type Stack[S any] struct {
	dispatch dispatch.Func
	api      dispatch.API[S]
	cache    cache.Cache
	gatherer prometheus.Gatherer
	closers  []func()
}

// NewStack creates a [Stack] by applying the supplied functional [Option]
// values. Middleware execution order is determined by fixed priority levels
// (see the Order constants), not by the order options are passed. The thunk
// middleware sits at OrderThunk, inside every built-in interceptor, and
// every dispatch a thunk issues re-enters the whole chain.
func NewStack[S any](getState dispatch.GetStateFunc[S], base dispatch.Func, opts ...Option) (*Stack[S], error) {
	cfg := newConfig(opts)
	if cfg.err != nil {
		return nil, cfg.err
	}
	if len(cfg.toEnhance) > 0 {
		if _, _, err := validateEnhancers[S](cfg.toEnhance); err != nil {
			return nil, err
		}
	}

	s := &Stack[S]{}

	if err := s.buildCache(cfg); err != nil {
		return nil, err
	}

	if cfg.tracing != nil {
		cfg.middlewares.Add(OrderTracing, tracing.Interceptor(cfg.tracing))
	}
	if cfg.metrics {
		col, err := metrics.New(cfg.metricsRegistry)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("gothunker: metrics: %w", err)
		}
		cfg.middlewares.Add(OrderMetrics, col.Interceptor())
		if g, ok := cfg.metricsRegistry.(prometheus.Gatherer); ok {
			s.gatherer = g
		}
	}
	if cfg.logger != nil {
		cfg.middlewares.Add(OrderLogging, interceptors.Logging(cfg.logger))
	}
	if cfg.globalLimiter != nil || cfg.resolver != nil {
		cfg.middlewares.Add(OrderRateLimit, interceptors.RateLimit(cfg.globalLimiter, cfg.resolver))
	}
	if cfg.breaker != nil {
		cfg.middlewares.Add(OrderBreaker, interceptors.Breaker(breaker.New(*cfg.breaker)))
	}

	extras := cfg.extraArguments
	if s.cache != nil {
		extras = mergeExtras(Extras{cache.ExtraKey: s.cache}, extras)
	}

	chain := core.Convert(&cfg.middlewares, dispatch.Lift[S])
	chain.Add(OrderThunk, thunkMiddleware[S](extras, cfg.toEnhance, cfg.thunk))

	s.dispatch = dispatch.Apply(getState, base, chain.Build()...)
	s.api = dispatch.API[S]{Dispatch: s.dispatch, GetState: getState}
	return s, nil
}

// buildCache resolves the cache options. When both L1 and L2 are configured
// they are combined into a tiered cache.
func (s *Stack[S]) buildCache(cfg *config) error {
	var l1 *cache.L1
	if cfg.l1MaxCost > 0 {
		var err error
		if l1, err = cache.NewL1(cfg.l1MaxCost); err != nil {
			return fmt.Errorf("gothunker: cache: %w", err)
		}
		s.closers = append(s.closers, l1.Close)
	}
	l2 := cfg.l2
	if l2 == nil && cfg.redis != nil {
		r := cfg.redis
		l2 = cache.NewL2WithPrefix(r.Addr, r.Password, r.DB, r.Prefix)
		s.closers = append(s.closers, func() { _ = l2.Close() })
	}

	switch {
	case cfg.cache != nil:
		s.cache = cfg.cache
	case l1 != nil && l2 != nil:
		s.cache = cache.NewTiered(l1, l2)
	case l1 != nil:
		s.cache = l1
	case l2 != nil:
		s.cache = l2
	}
	return nil
}

// Dispatch sends action through the chain.
func (s *Stack[S]) Dispatch(ctx context.Context, action any) (any, error) {
	return s.dispatch(ctx, action)
}

// API returns the capabilities thunks receive.
func (s *Stack[S]) API() dispatch.API[S] {
	return s.api
}

// Cache returns the cache handed to thunks. It returns nil if no cache was
// configured.
func (s *Stack[S]) Cache() cache.Cache {
	return s.cache
}

// MetricsHandler returns an http.Handler that serves Prometheus metrics from
// the registry given to WithMetrics, or from the default registry.
func (s *Stack[S]) MetricsHandler() http.Handler {
	if s.gatherer != nil {
		return promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

// Close releases the caches created by the stack: the L1 from WithCacheL1
// and a Redis L2 described by WithSettings. Caches passed with WithCache or
// WithCacheL2 are left to the caller.
func (s *Stack[S]) Close() {
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}

// IsRejected reports whether err was produced by the stack itself rather than
// by a thunk or the base dispatch: rate limiting, an open breaker or a
// recovered panic.
func IsRejected(err error) bool {
	return errors.Is(err, interceptors.ErrRateLimited) ||
		errors.Is(err, interceptors.ErrCircuitOpen) ||
		errors.Is(err, interceptors.ErrPanic)
}
