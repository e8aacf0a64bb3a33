package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements domain.BucketStorage on a single table:
// one row per bucket, the bucket payload stored as jsonb.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a new PostgreSQL bucket storage.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

// EnsureSchema creates the bucket table if it does not exist.
func (s *PostgresStorage) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS store_buckets (
			name TEXT PRIMARY KEY,
			payload JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("postgres: failed to create bucket table: %w", err)
	}
	return nil
}

// Load returns the payload for a bucket, or nil if the bucket is absent.
func (s *PostgresStorage) Load(ctx context.Context, bucket string) ([]byte, error) {
	query := `SELECT payload FROM store_buckets WHERE name = $1`

	var payload []byte
	err := s.pool.QueryRow(ctx, query, bucket).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to load bucket %q: %w", bucket, err)
	}
	return payload, nil
}

// Save overwrites the payload for a bucket.
func (s *PostgresStorage) Save(ctx context.Context, bucket string, payload []byte) error {
	query := `
		INSERT INTO store_buckets (name, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`
	if _, err := s.pool.Exec(ctx, query, bucket, payload); err != nil {
		return fmt.Errorf("postgres: failed to save bucket %q: %w", bucket, err)
	}
	return nil
}

// Delete removes a bucket.
func (s *PostgresStorage) Delete(ctx context.Context, bucket string) error {
	query := `DELETE FROM store_buckets WHERE name = $1`
	if _, err := s.pool.Exec(ctx, query, bucket); err != nil {
		return fmt.Errorf("postgres: failed to delete bucket %q: %w", bucket, err)
	}
	return nil
}

// Health checks database connectivity.
func (s *PostgresStorage) Health(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
