// Package image manages image records and the four operations on them:
// upload, list, view and delete.
package image

import (
	"context"
	"errors"
	"time"
)

// Record is the metadata stored for every uploaded image.
type Record struct {
	ImageID   string   `json:"imageId"   dynamodbav:"imageId"`
	UserID    string   `json:"userId"    dynamodbav:"userId"`
	Tags      []string `json:"tags"      dynamodbav:"tags"`
	CreatedAt string   `json:"createdAt" dynamodbav:"createdAt"`
	S3Key     string   `json:"s3Key"     dynamodbav:"s3Key"`
}

// ErrNotFound is returned when no record exists for an image ID.
var ErrNotFound = errors.New("image not found")

// ErrInvalidInput is returned when an upload request cannot be decoded.
var ErrInvalidInput = errors.New("invalid input")

// Repository is the key-value store holding image records, keyed by ImageID.
type Repository interface {
	// Put inserts or overwrites a record.
	Put(ctx context.Context, rec *Record) error
	// Get returns ErrNotFound when the record is absent.
	Get(ctx context.Context, imageID string) (*Record, error)
	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, imageID string) error
	// Scan returns every record in no particular order.
	Scan(ctx context.Context) ([]Record, error)
}

// ObjectKey is the object store key for an image: "{userId}/{imageId}.jpg".
func ObjectKey(userID, imageID string) string {
	return userID + "/" + imageID + ".jpg"
}

// createdAtLayout is RFC 3339 in UTC with microsecond precision.
const createdAtLayout = "2006-01-02T15:04:05.000000Z"

// FormatCreatedAt renders t the way CreatedAt is stored.
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format(createdAtLayout)
}

// Normalize replaces a nil Tags slice with an empty one so lists always
// encode tags as an array.
func (r *Record) Normalize() {
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

// HasTag reports whether tag is one of the record's tags.
func (r *Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
