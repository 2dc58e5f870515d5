package memory

import (
	"context"
	"sync"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
)

// RecordStore keeps records in process memory. State is lost on restart; it
// backs tests and the "memory" storage backend.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[string][]byte)}
}

func (s *RecordStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.records[key]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *RecordStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = append([]byte(nil), value...)
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *RecordStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *RecordStore) Ping(context.Context) error { return nil }
