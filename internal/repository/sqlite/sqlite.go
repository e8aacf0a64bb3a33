// Package sqlite implements bucket storage on modernc.org/sqlite, a pure
// Go, CGo-free SQLite driver. Used for single-binary deployments where
// running PostgreSQL is not worth the operational cost.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStorage implements domain.BucketStorage on a local SQLite file.
type SQLiteStorage struct {
	db *sql.DB

	// modernc sqlite allows one writer at a time; serialize writes here
	// rather than relying on the driver's busy handler.
	mu sync.Mutex
}

// Open opens (or creates) the database file and ensures the schema.
func Open(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open %q: %w", path, err)
	}

	s := &SQLiteStorage{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStorage) ensureSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS store_buckets (
			name TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("sqlite: failed to create bucket table: %w", err)
	}
	return nil
}

// Load returns the payload for a bucket, or nil if the bucket is absent.
func (s *SQLiteStorage) Load(ctx context.Context, bucket string) ([]byte, error) {
	query := `SELECT payload FROM store_buckets WHERE name = ?`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, bucket).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to load bucket %q: %w", bucket, err)
	}
	return payload, nil
}

// Save overwrites the payload for a bucket.
func (s *SQLiteStorage) Save(ctx context.Context, bucket string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO store_buckets (name, payload, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, updated_at = datetime('now')
	`
	if _, err := s.db.ExecContext(ctx, query, bucket, payload); err != nil {
		return fmt.Errorf("sqlite: failed to save bucket %q: %w", bucket, err)
	}
	return nil
}

// Delete removes a bucket.
func (s *SQLiteStorage) Delete(ctx context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `DELETE FROM store_buckets WHERE name = ?`
	if _, err := s.db.ExecContext(ctx, query, bucket); err != nil {
		return fmt.Errorf("sqlite: failed to delete bucket %q: %w", bucket, err)
	}
	return nil
}

// Health checks database connectivity.
func (s *SQLiteStorage) Health(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: health check failed: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
