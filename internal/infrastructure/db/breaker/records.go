// Package breaker guards a remote RecordStore with a circuit breaker so a
// down backend fails fast instead of stalling every ledger save.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
)

const (
	defaultMaxFailures = 5
	defaultOpenTimeout = 30 * time.Second
)

// Settings tunes the breaker. Zero values select defaults.
type Settings struct {
	Name string
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before probing again.
	OpenTimeout time.Duration
}

type RecordStore struct {
	next ports.RecordStore
	cb   *gobreaker.CircuitBreaker
}

// Wrap returns next guarded by a circuit breaker. A missing record counts as
// success.
func Wrap(next ports.RecordStore, s Settings, log zerolog.Logger) *RecordStore {
	if s.MaxFailures == 0 {
		s.MaxFailures = defaultMaxFailures
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = defaultOpenTimeout
	}
	if s.Name == "" {
		s.Name = "record-store"
	}
	maxFailures := s.MaxFailures

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrRecordNotFound)
		},
	})
	return &RecordStore{next: next, cb: cb}
}

// State reports the breaker state; the readiness probe surfaces it.
func (r *RecordStore) State() gobreaker.State { return r.cb.State() }

func (r *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.Get(ctx, key)
	})
	if err != nil {
		return nil, r.wrap(err)
	}
	return v.([]byte), nil
}

func (r *RecordStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.next.Set(ctx, key, value)
	})
	return r.wrap(err)
}

func (r *RecordStore) Remove(ctx context.Context, key string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.next.Remove(ctx, key)
	})
	return r.wrap(err)
}

// Ping bypasses the breaker so readiness reflects the backend itself.
func (r *RecordStore) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

func (r *RecordStore) wrap(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", r.cb.Name(), err)
	}
	return err
}
