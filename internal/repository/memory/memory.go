// Package memory implements bucket storage in process memory. Used when
// no database is configured and as the storage backend in tests.
package memory

import (
	"context"
	"sync"
)

// MemoryStorage implements domain.BucketStorage with a plain map.
type MemoryStorage struct {
	mu      sync.RWMutex
	buckets map[string][]byte
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{buckets: make(map[string][]byte)}
}

// Load returns the payload for a bucket, or nil if absent.
func (s *MemoryStorage) Load(ctx context.Context, bucket string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.buckets[bucket]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

// Save overwrites the payload for a bucket.
func (s *MemoryStorage) Save(ctx context.Context, bucket string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.buckets[bucket] = stored
	return nil
}

// Delete removes a bucket.
func (s *MemoryStorage) Delete(ctx context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.buckets, bucket)
	return nil
}

// Health always succeeds for in-memory storage.
func (s *MemoryStorage) Health(ctx context.Context) error {
	return nil
}
