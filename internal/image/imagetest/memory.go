// Package imagetest provides in-memory implementations of the image
// repository and object store for tests.
package imagetest

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/radif/imagemeta/internal/image"
)

// Repository is an in-memory image.Repository.
type Repository struct {
	mu      sync.Mutex
	records map[string]image.Record

	// Err, when set, is returned by every operation.
	Err error
	// PutCalls and DeleteCalls count write attempts.
	PutCalls    int
	DeleteCalls int
}

// NewRepository returns an empty Repository.
func NewRepository() *Repository {
	return &Repository{records: map[string]image.Record{}}
}

func (r *Repository) Put(_ context.Context, rec *image.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PutCalls++
	if r.Err != nil {
		return r.Err
	}
	cp := *rec
	cp.Tags = append([]string(nil), rec.Tags...)
	r.records[rec.ImageID] = cp
	return nil
}

func (r *Repository) Get(_ context.Context, imageID string) (*image.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	rec, ok := r.records[imageID]
	if !ok {
		return nil, image.ErrNotFound
	}
	return &rec, nil
}

func (r *Repository) Delete(_ context.Context, imageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DeleteCalls++
	if r.Err != nil {
		return r.Err
	}
	delete(r.records, imageID)
	return nil
}

func (r *Repository) Scan(_ context.Context) ([]image.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]image.Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}

// Len returns the number of stored records.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Object is a stored blob.
type Object struct {
	Data        []byte
	ContentType string
}

// Storage is an in-memory storage.Storage. Presigned URLs use a fake host.
type Storage struct {
	mu      sync.Mutex
	objects map[string]Object

	// Err, when set, is returned by every operation.
	Err         error
	UploadCalls int
	DeleteCalls int
}

// NewStorage returns an empty Storage.
func NewStorage() *Storage {
	return &Storage{objects: map[string]Object{}}
}

func (s *Storage) Upload(_ context.Context, key string, reader io.Reader, _ int64, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UploadCalls++
	if s.Err != nil {
		return s.Err
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[key] = Object{Data: b, ContentType: contentType}
	return nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeleteCalls++
	if s.Err != nil {
		return s.Err
	}
	delete(s.objects, key)
	return nil
}

func (s *Storage) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	return fmt.Sprintf("https://objects.test/%s?expires=%d", key, int(ttl.Seconds())), nil
}

// Object returns the blob stored under key.
func (s *Storage) Object(key string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[key]
	return o, ok
}

// Len returns the number of stored objects.
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
