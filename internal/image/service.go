package image

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radif/imagemeta/internal/storage"
)

// ViewURLTTL is how long a generated view URL stays valid.
const ViewURLTTL = time.Hour

const defaultContentType = "image/jpeg"

// Filter narrows List results. Empty fields do not filter.
type Filter struct {
	UserID string
	Tag    string
}

// Service contains the business logic for image records and their objects.
type Service struct {
	repo  Repository
	store storage.Storage
	log   *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a new image Service.
func NewService(repo Repository, store storage.Storage, log *zap.Logger) *Service {
	return &Service{
		repo:  repo,
		store: store,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Upload stores data in the object store and then writes its record.
// The two writes are not atomic: if the record write fails the object stays behind.
func (s *Service) Upload(ctx context.Context, userID string, tags []string, data []byte) (*Record, error) {
	if tags == nil {
		tags = []string{}
	}

	imageID := s.newID()
	key := ObjectKey(userID, imageID)

	if err := s.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType(data)); err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}

	rec := &Record{
		ImageID:   imageID,
		UserID:    userID,
		Tags:      tags,
		CreatedAt: FormatCreatedAt(s.now()),
		S3Key:     key,
	}
	if err := s.repo.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("put record %s: %w", imageID, err)
	}

	s.log.Info("image uploaded",
		zap.String("imageId", imageID),
		zap.String("userId", userID),
		zap.Int("size", len(data)))

	return rec, nil
}

// List scans every record and keeps those matching f.
func (s *Service) List(ctx context.Context, f Filter) ([]Record, error) {
	all, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}

	out := make([]Record, 0, len(all))
	for i := range all {
		rec := all[i]
		if f.UserID != "" && rec.UserID != f.UserID {
			continue
		}
		if f.Tag != "" && !rec.HasTag(f.Tag) {
			continue
		}
		rec.Normalize()
		out = append(out, rec)
	}
	return out, nil
}

// ViewURL returns a time-limited URL for the image's object. Only the record
// is checked; the object itself may be gone.
func (s *Service) ViewURL(ctx context.Context, imageID string) (string, error) {
	rec, err := s.repo.Get(ctx, imageID)
	if err != nil {
		return "", err
	}

	u, err := s.store.PresignGet(ctx, rec.S3Key, ViewURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", rec.S3Key, err)
	}
	return u, nil
}

// Delete removes the image's object and then its record.
// If the record delete fails the record is left without an object.
func (s *Service) Delete(ctx context.Context, imageID string) error {
	rec, err := s.repo.Get(ctx, imageID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, rec.S3Key); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	if err := s.repo.Delete(ctx, imageID); err != nil {
		return fmt.Errorf("delete record %s: %w", imageID, err)
	}

	s.log.Info("image deleted", zap.String("imageId", imageID))
	return nil
}

func contentType(data []byte) string {
	mt := mimetype.Detect(data)
	if mt.Is("application/octet-stream") || mt.Is("text/plain") {
		return defaultContentType
	}
	return mt.String()
}
