// Package store implements generic CRUD over named, capacity-bounded
// record collections held in durable bucket storage. Each store owns one
// bucket containing its records as a single JSON array; older records are
// evicted FIFO once the retention cap is reached.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartcity/insight/internal/domain"
)

// Mutable constrains the record pointer type: the store reads identity
// through domain.Record and assigns it through SetMeta on creation.
type Mutable[T any] interface {
	*T
	domain.Record
	SetMeta(id string, ts time.Time)
}

// Store is a capacity-bounded collection of records of one kind.
// All mutations go through the store; consumers never modify records
// in place. Methods never fail: storage errors degrade to an empty
// collection on read and a logged warning on write.
type Store[T any, PT Mutable[T]] struct {
	name string
	max  int
	kv   domain.BucketStorage
	log  *zap.Logger

	// serializes load-modify-persist cycles within this process
	mu sync.Mutex
}

// New creates a store over the given bucket name with a retention cap.
func New[T any, PT Mutable[T]](name string, maxRecords int, kv domain.BucketStorage, log *zap.Logger) *Store[T, PT] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store[T, PT]{name: name, max: maxRecords, kv: kv, log: log}
}

// Name returns the bucket name of this store.
func (s *Store[T, PT]) Name() string { return s.name }

// MaxRecords returns the retention cap.
func (s *Store[T, PT]) MaxRecords() int { return s.max }

func (s *Store[T, PT]) load(ctx context.Context) []T {
	payload, err := s.kv.Load(ctx, s.name)
	if err != nil {
		s.log.Warn("store load failed, treating as empty",
			zap.String("store", s.name), zap.Error(err))
		return nil
	}
	if len(payload) == 0 {
		return nil
	}

	var records []T
	if err := json.Unmarshal(payload, &records); err != nil {
		// Corrupt payload is recoverable: start over with an empty set.
		s.log.Warn("store payload corrupt, treating as empty",
			zap.String("store", s.name), zap.Error(err))
		return nil
	}
	return records
}

func (s *Store[T, PT]) persist(ctx context.Context, records []T) {
	// Trim before every write so the cap is a hard ceiling.
	if len(records) > s.max {
		records = records[len(records)-s.max:]
	}

	payload, err := json.Marshal(records)
	if err != nil {
		s.log.Warn("store marshal failed, write dropped",
			zap.String("store", s.name), zap.Error(err))
		return
	}
	if err := s.kv.Save(ctx, s.name, payload); err != nil {
		s.log.Warn("store save failed, write dropped",
			zap.String("store", s.name), zap.Error(err))
	}
}

// Create assigns an id and the current timestamp to rec, appends it and
// persists. It always returns the stored record; persistence failures
// are logged, never surfaced.
func (s *Store[T, PT]) Create(ctx context.Context, rec T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	id := fmt.Sprintf("%s-%d-%s", s.name, now.UnixMilli(), uuid.NewString()[:8])
	PT(&rec).SetMeta(id, now)

	records := append(s.load(ctx), rec)
	s.persist(ctx, records)
	return rec
}

// Read returns the record with the given id, if any.
func (s *Store[T, PT]) Read(ctx context.Context, id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	for _, rec := range s.load(ctx) {
		if PT(&rec).RecordID() == id {
			return rec, true
		}
	}
	return zero, false
}

// ReadAll returns every record in insertion order.
func (s *Store[T, PT]) ReadAll(ctx context.Context) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// ReadRecent returns up to n records, newest first by insertion order.
func (s *Store[T, PT]) ReadRecent(ctx context.Context, n int) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	if n > len(records) {
		n = len(records)
	}
	if n <= 0 {
		return nil
	}

	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = records[len(records)-1-i]
	}
	return out
}

// Update applies mutate to the record with the given id and persists.
// Returns the updated record, or false if no record has that id.
// The id and timestamp survive any mutation.
func (s *Store[T, PT]) Update(ctx context.Context, id string, mutate func(*T)) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	records := s.load(ctx)
	for i := range records {
		if PT(&records[i]).RecordID() != id {
			continue
		}
		ts := PT(&records[i]).RecordTime()
		mutate(&records[i])
		PT(&records[i]).SetMeta(id, ts)
		s.persist(ctx, records)
		return records[i], true
	}
	return zero, false
}

// Delete removes the record with the given id. Returns true if a record
// was removed.
func (s *Store[T, PT]) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	kept := records[:0:0]
	for _, rec := range records {
		if PT(&rec).RecordID() != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return false
	}
	s.persist(ctx, kept)
	return true
}

// Clear empties the store.
func (s *Store[T, PT]) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, s.name); err != nil {
		s.log.Warn("store clear failed",
			zap.String("store", s.name), zap.Error(err))
	}
}

// Count returns the number of stored records.
func (s *Store[T, PT]) Count(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.load(ctx))
}

// Query returns every record matching the predicate, in insertion order.
func (s *Store[T, PT]) Query(ctx context.Context, pred func(T) bool) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []T
	for _, rec := range s.load(ctx) {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Stats summarizes the store. Oldest and Newest are taken from the first
// and last records by insertion order, not by sorting on timestamp.
func (s *Store[T, PT]) Stats(ctx context.Context) domain.StoreStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	if len(records) == 0 {
		return domain.StoreStats{}
	}

	oldest := PT(&records[0]).RecordTime()
	newest := PT(&records[len(records)-1]).RecordTime()
	return domain.StoreStats{
		Count:  len(records),
		Oldest: &oldest,
		Newest: &newest,
	}
}
