// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
)

// Circuit breaker tuning. Pipeline traffic is low volume (five calls per
// run), so tripping keys off consecutive failures rather than failure
// rates.
const (
	breakerName        = "document-store"
	breakerMaxHalfOpen = 1
	breakerInterval    = time.Minute
	breakerTimeout     = 30 * time.Second
	breakerMaxFailures = 3
)

// FetchBreaker wraps a Reader with circuit breaker protection so a dead
// store fails fast instead of eating the full fetch timeout on every
// call.
//
// DETERMINISM NOTE: The circuit breaker uses real time (via
// sony/gobreaker) for its interval and timeout bookkeeping. Tests should
// exercise the wrapped Reader directly or inject failures rather than
// waiting out breaker state transitions.
type FetchBreaker struct {
	reader Reader
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

var _ Reader = (*FetchBreaker)(nil)

// NewFetchBreaker wraps reader with a circuit breaker. The breaker opens
// after three consecutive failures, rejects calls for 30 seconds, then
// admits a single probe before closing again.
func NewFetchBreaker(reader Reader) *FetchBreaker {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: breakerMaxHalfOpen,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= breakerMaxFailures
			if trip {
				logging.Warn().
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &FetchBreaker{
		reader: reader,
		cb:     cb,
		name:   breakerName,
	}
}

// execute wraps a store call with circuit breaker protection.
func (b *FetchBreaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// castResult type-casts the circuit breaker result with error checking.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to a numeric gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to a string for logging.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Ping verifies store connectivity with circuit breaker protection.
func (b *FetchBreaker) Ping(ctx context.Context) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.reader.Ping(ctx)
	})
	return err
}

// FetchInteractions retrieves interactions with circuit breaker protection.
func (b *FetchBreaker) FetchInteractions(ctx context.Context) ([]InteractionDoc, error) {
	return castResult[[]InteractionDoc](b.execute(func() (interface{}, error) {
		return b.reader.FetchInteractions(ctx)
	}))
}

// FetchCustomers retrieves customers with circuit breaker protection.
func (b *FetchBreaker) FetchCustomers(ctx context.Context) ([]CustomerDoc, error) {
	return castResult[[]CustomerDoc](b.execute(func() (interface{}, error) {
		return b.reader.FetchCustomers(ctx)
	}))
}

// FetchProducts retrieves products with circuit breaker protection.
func (b *FetchBreaker) FetchProducts(ctx context.Context) ([]ProductDoc, error) {
	return castResult[[]ProductDoc](b.execute(func() (interface{}, error) {
		return b.reader.FetchProducts(ctx)
	}))
}

// FetchCategories retrieves product categories with circuit breaker protection.
func (b *FetchBreaker) FetchCategories(ctx context.Context) ([]CategoryDoc, error) {
	return castResult[[]CategoryDoc](b.execute(func() (interface{}, error) {
		return b.reader.FetchCategories(ctx)
	}))
}
