package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
)

// RecordStore keeps each record as a plain string value. Records never expire.
type RecordStore struct {
	client *redis.Client
}

// NewRecordStore creates a RecordStore wrapping the given Redis client.
func NewRecordStore(client *redis.Client) *RecordStore {
	return &RecordStore{client: client}
}

func (s *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

func (s *RecordStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RecordStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *RecordStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
