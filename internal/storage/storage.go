// Package storage defines the interface for object storage operations.
// Two implementations exist: AWS S3 (also LocalStack) and MinIO. Both work
// with any S3-compatible provider; the driver is picked at startup.
package storage

import (
	"context"
	"io"
	"time"
)

// Storage is the interface for storing, deleting and sharing objects.
type Storage interface {
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a URL granting read access to key for ttl.
	// It does not check that the object exists.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
