package store

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned when the circuit breaker is open and rejects
// requests to the store to prevent cascading failures.
var ErrCircuitOpen = errors.New("store circuit breaker is open")

// BreakerConfig holds the circuit breaker tuning for the store client.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures required to trip the
	// circuit. Default: 3.
	MaxFailures uint32

	// Timeout is how long the circuit stays open before allowing test
	// requests. Default: 30 seconds.
	Timeout time.Duration

	// HalfOpenMaxSuccesses is the number of consecutive successes in
	// half-open state required to close the circuit. Default: 2.
	HalfOpenMaxSuccesses uint32
}

// circuitBreaker wraps gobreaker around store round trips. Requests pass
// through while closed; after MaxFailures consecutive failures the circuit
// opens and every call fails fast with ErrCircuitOpen until the timeout
// elapses and test requests succeed again.
type circuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
}

func newCircuitBreaker(config BreakerConfig) *circuitBreaker {
	if config.MaxFailures == 0 {
		config.MaxFailures = 3
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.HalfOpenMaxSuccesses == 0 {
		config.HalfOpenMaxSuccesses = 2
	}

	settings := gobreaker.Settings{
		Name:        "StoreCircuitBreaker",
		MaxRequests: config.HalfOpenMaxSuccesses,
		Interval:    0,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.MaxFailures
		},
	}

	return &circuitBreaker{breaker: gobreaker.NewCircuitBreaker(settings)}
}

// execute runs fn through the breaker, honoring context cancellation before
// the call is attempted.
func (cb *circuitBreaker) execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := cb.breaker.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}
		return nil, err
	}
	return result, nil
}
