package gothunker

import (
	"log/slog"

	"github.com/Keksclan/goThunker/breaker"
	"github.com/Keksclan/goThunker/cache"
	"github.com/Keksclan/goThunker/dispatch"
	"github.com/Keksclan/goThunker/internal/core"
	"github.com/Keksclan/goThunker/policy"
	"github.com/Keksclan/goThunker/ratelimit"
	"github.com/Keksclan/goThunker/settings"
	"github.com/Keksclan/goThunker/tracing"
	"github.com/prometheus/client_golang/prometheus"
)

// Config is the construction record of the thunk middleware.
type Config struct {
	// CompatibilityMode switches thunks to the positional calling convention
	// (dispatch, getState, extras).
	CompatibilityMode bool
	// Continuous forwards a successful non-nil thunk result to the next
	// middleware instead of returning it.
	Continuous bool
}

// config holds the internal configuration assembled via functional options.
type config struct {
	extraArguments Extras
	toEnhance      map[string]any
	thunk          Config

	// middlewares collects interceptors added directly by options. The
	// interceptors that need construction-time resources are appended by
	// NewStack at their fixed orders.
	middlewares core.MiddlewareBuilder[dispatch.Interceptor]

	tracing *tracing.Config

	metrics         bool
	metricsRegistry prometheus.Registerer

	logger *slog.Logger

	globalLimiter *ratelimit.Limiter
	resolver      *policy.Resolver

	breaker *breaker.Config

	cache     cache.Cache
	l1MaxCost int64
	l2        *cache.L2
	// redis locates an L2 the stack creates and owns.
	redis *settings.Redis

	// err records the first option that could not be applied.
	err error
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

func (c *config) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}
