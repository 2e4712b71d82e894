package gothunker

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/Keksclan/goThunker/breaker"
	"github.com/Keksclan/goThunker/cache"
	"github.com/Keksclan/goThunker/dispatch"
	"github.com/Keksclan/goThunker/interceptors"
	"github.com/Keksclan/goThunker/internal/logging"
	"github.com/Keksclan/goThunker/policy"
	"github.com/Keksclan/goThunker/ratelimit"
	"github.com/Keksclan/goThunker/retry"
	"github.com/Keksclan/goThunker/settings"
	"github.com/Keksclan/goThunker/tracing"
	"github.com/prometheus/client_golang/prometheus"
)

// Execution order of the built-in interceptors. Lower values run first, i.e.
// sit further out in the chain. Custom interceptors added with
// WithInterceptor are placed by the order they are given.
const (
	OrderRecovery   = 100
	OrderDispatchID = 200
	OrderTracing    = 300
	OrderMetrics    = 400
	OrderLogging    = 500
	OrderRateLimit  = 600
	OrderBreaker    = 700
	OrderRetry      = 800
	OrderThunk      = 1000
)

// Option configures the thunk middleware and the Stack around it.
type Option func(*config)

// WithExtraArguments adds static extras handed to every thunk. Entries are
// copied; later options win on key collisions.
func WithExtraArguments(extras Extras) Option {
	return func(c *config) {
		if c.extraArguments == nil {
			c.extraArguments = make(Extras, len(extras))
		}
		maps.Copy(c.extraArguments, extras)
	}
}

// WithExtraArgument adds a single static extra.
func WithExtraArgument(key string, v any) Option {
	return WithExtraArguments(Extras{key: v})
}

// WithExtraArgumentsToEnhance adds factories evaluated on every thunk
// dispatch. Values must be enhancer functions; anything else is reported
// as a *ConfigurationError when a thunk is dispatched.
func WithExtraArgumentsToEnhance(toEnhance map[string]any) Option {
	return func(c *config) {
		if c.toEnhance == nil {
			c.toEnhance = make(map[string]any, len(toEnhance))
		}
		maps.Copy(c.toEnhance, toEnhance)
	}
}

// WithEnhancer adds a single factory under key.
func WithEnhancer[S any](key string, fn Enhancer[S]) Option {
	return WithExtraArgumentsToEnhance(map[string]any{key: fn})
}

// WithConfig replaces the thunk calling configuration.
func WithConfig(conf Config) Option {
	return func(c *config) {
		c.thunk = conf
	}
}

// WithCompatibilityMode selects the positional calling convention.
func WithCompatibilityMode() Option {
	return func(c *config) {
		c.thunk.CompatibilityMode = true
	}
}

// WithContinuous forwards successful thunk results down the chain.
func WithContinuous() Option {
	return func(c *config) {
		c.thunk.Continuous = true
	}
}

// WithInterceptor registers a custom interceptor at the given order.
func WithInterceptor(order int, ic dispatch.Interceptor) Option {
	return func(c *config) {
		c.middlewares.Add(order, ic)
	}
}

// WithRecovery registers panic recovery so that a panicking thunk or reducer
// yields an *interceptors.PanicError instead of crashing the process.
func WithRecovery() Option {
	return WithInterceptor(OrderRecovery, interceptors.Recovery())
}

// WithDispatchID tags every top-level dispatch with a fresh id and counts
// the nesting depth of dispatches issued from thunks.
func WithDispatchID() Option {
	return WithInterceptor(OrderDispatchID, interceptors.DispatchID())
}

// WithTracing enables OpenTelemetry spans for every dispatch.
func WithTracing(cfg tracing.Config) Option {
	return func(c *config) {
		c.tracing = &cfg
	}
}

// WithMetrics enables Prometheus dispatch metrics registered on reg. A nil
// reg selects the default registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.metrics = true
		c.metricsRegistry = reg
	}
}

// WithLogger enables structured dispatch logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRateLimitGlobal sets a global token-bucket limit for all dispatches.
func WithRateLimitGlobal(rps float64, burst int) Option {
	return func(c *config) {
		c.globalLimiter = ratelimit.NewLimiter(rps, burst)
	}
}

// WithRateLimitPolicies sets per-group limits resolved by action type.
// Groups without a rate limit fall back to the global limiter.
func WithRateLimitPolicies(r *policy.Resolver) Option {
	return func(c *config) {
		c.resolver = r
	}
}

// WithBreaker opens a circuit after consecutive dispatch failures.
func WithBreaker(cfg breaker.Config) Option {
	return func(c *config) {
		c.breaker = &cfg
	}
}

// WithRetry re-runs dispatches that fail with an error cfg.Retryable
// accepts. It sits inside the breaker, so the breaker sees one outcome per
// dispatch rather than one per attempt.
func WithRetry(cfg retry.Config) Option {
	return WithInterceptor(OrderRetry, interceptors.Retry(cfg))
}

// WithCache hands c to every thunk under cache.ExtraKey.
func WithCache(c cache.Cache) Option {
	return func(cfg *config) {
		cfg.cache = c
	}
}

// WithCacheL1 enables an in-process ristretto cache holding up to maxCost
// entries. Combined with WithCacheL2 the two form a tiered cache.
func WithCacheL1(maxCost int64) Option {
	return func(c *config) {
		c.l1MaxCost = maxCost
	}
}

// WithCacheL2 enables a Redis-backed cache layer. The caller keeps
// ownership of l2: Stack.Close leaves it open.
func WithCacheL2(l2 *cache.L2) Option {
	return func(c *config) {
		c.l2 = l2
	}
}

// WithSettings applies a declarative settings document. The calling
// convention and extras are applied first, so they hold even when a later
// part of the document is rejected. A Redis cache is only described here;
// NewStack creates the client and Stack.Close closes it.
func WithSettings(s settings.Settings) Option {
	return func(c *config) {
		WithConfig(Config{
			CompatibilityMode: s.Config.CompatibilityMode,
			Continuous:        s.Config.Continuous,
		})(c)
		if len(s.ExtraArguments) > 0 {
			WithExtraArguments(s.ExtraArguments)(c)
		}

		if err := s.Validate(); err != nil {
			c.fail(err)
			return
		}

		var opts []Option
		if s.LogLevel != "" {
			level, err := logging.ParseLevel(s.LogLevel)
			if err != nil {
				c.fail(fmt.Errorf("gothunker: settings: %w", err))
				return
			}
			opts = append(opts, WithLogger(logging.New(level)))
		}
		if rl := s.RateLimit; rl != nil {
			opts = append(opts, WithRateLimitGlobal(rl.RPS, rl.Burst))
		}
		if b := s.Breaker; b != nil {
			opts = append(opts, WithBreaker(breaker.Config{
				FailureThreshold:   b.FailureThreshold,
				OpenTimeout:        b.OpenTimeout,
				HalfOpenMaxSuccess: b.HalfOpenMaxSuccess,
			}))
		}
		if cs := s.Cache; cs != nil {
			if cs.L1MaxCost > 0 {
				opts = append(opts, WithCacheL1(cs.L1MaxCost))
			}
			if r := cs.Redis; r != nil {
				redis := *r
				c.redis = &redis
			}
		}

		for _, o := range opts {
			o(c)
		}
	}
}
