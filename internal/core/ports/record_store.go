package ports

import "context"

// RecordStore is the durable key-value medium behind the entity store.
// Values are serialized records; Get returns domain.ErrRecordNotFound for a
// missing key.
type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	// Ping reports whether the underlying medium is reachable.
	Ping(ctx context.Context) error
}
