package domain

import "context"

// BucketStorage is the durable key-value layer under the record stores.
// Each store owns one bucket holding its records as a single JSON array.
// This follows the Dependency Inversion Principle - domain defines the interface
type BucketStorage interface {
	// Load returns the stored payload for a bucket, or nil if absent.
	Load(ctx context.Context, bucket string) ([]byte, error)

	// Save overwrites the payload for a bucket.
	Save(ctx context.Context, bucket string, payload []byte) error

	// Delete removes a bucket entirely.
	Delete(ctx context.Context, bucket string) error

	// Health checks storage connectivity.
	Health(ctx context.Context) error
}
