package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/handsomefox/watchlist/internal/logger"
	"github.com/handsomefox/watchlist/internal/metrics"
)

const (
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second
)

// breaker fails calls fast once the backend has failed repeatedly. Client
// errors (4xx) and cancelled requests do not count against it.
type breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[[]byte]
}

func newBreaker(name string, failures uint32, timeout time.Duration) *breaker {
	if failures == 0 {
		failures = defaultBreakerFailures
	}
	if timeout <= 0 {
		timeout = defaultBreakerTimeout
	}
	metrics.BreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up says nothing about the backend's health.
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var statusErr *StatusError
			return errors.As(err, &statusErr) && !statusErr.Temporary()
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("catalog breaker state change",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return &breaker{name: name, cb: cb}
}

func (b *breaker) execute(op string, fn func() ([]byte, error)) ([]byte, error) {
	start := time.Now()
	body, err := b.cb.Execute(fn)

	outcome := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "rejected"
		slog.Warn("catalog call rejected", slog.String("op", op), logger.Error(err))
	case err != nil:
		outcome = "failure"
	}
	metrics.BackendRequestDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
	return body, err
}

func (b *breaker) state() gobreaker.State { return b.cb.State() }

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
