package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
)

type flakyStore struct {
	err   error
	calls int
}

func (f *flakyStore) Get(context.Context, string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte(`[]`), nil
}

func (f *flakyStore) Set(context.Context, string, []byte) error {
	f.calls++
	return f.err
}

func (f *flakyStore) Remove(context.Context, string) error {
	f.calls++
	return f.err
}

func (f *flakyStore) Ping(context.Context) error { return f.err }

func TestRecordStore_OpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	backend := &flakyStore{err: errors.New("connection refused")}
	s := Wrap(backend, Settings{MaxFailures: 3, OpenTimeout: time.Minute}, zerolog.Nop())

	for i := 0; i < 3; i++ {
		assert.Error(t, s.Set(ctx, "posts", []byte(`[]`)))
	}
	require.Equal(t, gobreaker.StateOpen, s.State())

	err := s.Set(ctx, "posts", []byte(`[]`))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, backend.calls, "open circuit must not reach the backend")
}

func TestRecordStore_MissingRecordIsNotAFailure(t *testing.T) {
	ctx := context.Background()
	backend := &flakyStore{err: domain.ErrRecordNotFound}
	s := Wrap(backend, Settings{MaxFailures: 2}, zerolog.Nop())

	for i := 0; i < 5; i++ {
		_, err := s.Get(ctx, "user")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, s.State())
}

func TestRecordStore_RecoversAfterTimeout(t *testing.T) {
	ctx := context.Background()
	backend := &flakyStore{err: errors.New("timeout")}
	s := Wrap(backend, Settings{MaxFailures: 1, OpenTimeout: 20 * time.Millisecond}, zerolog.Nop())

	assert.Error(t, s.Remove(ctx, "user"))
	require.Equal(t, gobreaker.StateOpen, s.State())

	backend.err = nil
	time.Sleep(40 * time.Millisecond)

	got, err := s.Get(ctx, "posts")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
	assert.Equal(t, gobreaker.StateClosed, s.State())
}
