// Package metrics exports Prometheus collectors for dispatch traffic.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/Keksclan/goThunker/dispatch"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gothunker"

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Collector counts dispatches and observes their latency, labelled by
// action type and kind.
type Collector struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	inFlight   prometheus.Gauge
}

// New creates a Collector and registers it with reg. A nil reg registers
// with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Dispatched values by action type, kind and outcome.",
		}, []string{"type", "kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent in the dispatch chain.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"kind"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dispatches_in_flight",
			Help:      "Dispatches currently running, nested ones included.",
		}),
	}
	var err error
	if c.dispatches, err = register(reg, c.dispatches); err != nil {
		return nil, err
	}
	if c.duration, err = register(reg, c.duration); err != nil {
		return nil, err
	}
	if c.inFlight, err = register(reg, c.inFlight); err != nil {
		return nil, err
	}
	return c, nil
}

// register adds col to reg, reusing the collector already registered under
// the same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, col C) (C, error) {
	if err := reg.Register(col); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return col, err
	}
	return col, nil
}

// Interceptor returns a [dispatch.Interceptor] feeding c.
func (c *Collector) Interceptor() dispatch.Interceptor {
	return func(next dispatch.Func) dispatch.Func {
		return func(ctx context.Context, action any) (any, error) {
			kind := dispatch.KindOf(action)
			c.inFlight.Inc()
			start := time.Now()
			resp, err := next(ctx, action)
			c.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
			c.inFlight.Dec()

			outcome := OutcomeOK
			if err != nil {
				outcome = OutcomeError
			}
			c.dispatches.WithLabelValues(dispatch.TypeOf(action), kind, outcome).Inc()
			return resp, err
		}
	}
}
