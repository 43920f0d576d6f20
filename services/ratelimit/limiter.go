package ratelimit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	admittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_requests_admitted_total",
	}, []string{"tier"})
	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_requests_rejected_total",
	}, []string{"tier"})
)

// Limiter enforces a per-key requests-per-second ceiling over a fixed
// one-second window. Admission consumes the slot on attempt; callers that
// abandon a request do not get the slot back.
type Limiter struct {
	store  Store
	window time.Duration
}

func NewLimiter(store Store) *Limiter {
	return &Limiter{
		store:  store,
		window: time.Second,
	}
}

// Admit reports whether the request may proceed. An unbounded ceiling
// always admits. A store failure rejects: quota enforcement fails closed.
func (l *Limiter) Admit(ctx context.Context, key, tier string, c Ceiling) (bool, error) {
	if c.IsUnbounded() {
		admittedTotal.WithLabelValues(tier).Inc()
		return true, nil
	}

	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return false, err
	}

	if count > int64(c.PerSecondValue()) {
		rejectedTotal.WithLabelValues(tier).Inc()
		return false, nil
	}

	admittedTotal.WithLabelValues(tier).Inc()
	return true, nil
}
