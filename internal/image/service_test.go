package image_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radif/imagemeta/internal/image"
	"github.com/radif/imagemeta/internal/image/imagetest"
)

func newService(t *testing.T) (*image.Service, *imagetest.Repository, *imagetest.Storage) {
	t.Helper()
	repo := imagetest.NewRepository()
	store := imagetest.NewStorage()
	return image.NewService(repo, store, zap.NewNop()), repo, store
}

func TestUploadStoresObjectAndRecord(t *testing.T) {
	svc, repo, store := newService(t)
	ctx := context.Background()

	rec, err := svc.Upload(ctx, "u1", []string{"test", "demo"}, []byte("Hello World"))
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ImageID)
	assert.Equal(t, "u1/"+rec.ImageID+".jpg", rec.S3Key)

	got, err := repo.Get(ctx, rec.ImageID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, []string{"test", "demo"}, got.Tags)

	created, err := time.Parse(time.RFC3339Nano, got.CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, created.Location())
	assert.True(t, strings.HasSuffix(got.CreatedAt, "Z"))

	obj, ok := store.Object(rec.S3Key)
	require.True(t, ok)
	assert.Equal(t, []byte("Hello World"), obj.Data)
	assert.Equal(t, "image/jpeg", obj.ContentType)
}

func TestUploadGeneratesUniqueIDs(t *testing.T) {
	svc, _, _ := newService(t)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		rec, err := svc.Upload(context.Background(), "u1", nil, []byte{1})
		require.NoError(t, err)
		require.False(t, seen[rec.ImageID], "duplicate id %s", rec.ImageID)
		seen[rec.ImageID] = true
		assert.Equal(t, []string{}, rec.Tags)
	}
}

func TestUploadDetectsPNG(t *testing.T) {
	svc, _, store := newService(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	rec, err := svc.Upload(context.Background(), "u1", nil, png)
	require.NoError(t, err)

	obj, _ := store.Object(rec.S3Key)
	assert.Equal(t, "image/png", obj.ContentType)
}

func TestUploadRecordFailureLeavesObject(t *testing.T) {
	svc, repo, store := newService(t)
	repo.Err = errors.New("table unavailable")

	_, err := svc.Upload(context.Background(), "u1", nil, []byte("x"))
	require.ErrorIs(t, err, repo.Err)

	assert.Equal(t, 1, store.Len(), "object write is not rolled back")
}

func TestUploadObjectFailureSkipsRecord(t *testing.T) {
	svc, repo, store := newService(t)
	store.Err = errors.New("bucket unavailable")

	_, err := svc.Upload(context.Background(), "u1", nil, []byte("x"))
	require.ErrorIs(t, err, store.Err)
	assert.Equal(t, 0, repo.PutCalls)
}

func TestListFilters(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	a, err := svc.Upload(ctx, "u1", []string{"test", "demo"}, []byte("a"))
	require.NoError(t, err)
	b, err := svc.Upload(ctx, "u2", []string{"test"}, []byte("b"))
	require.NoError(t, err)
	c, err := svc.Upload(ctx, "u2", []string{"demo"}, []byte("c"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter image.Filter
		want   []string
	}{
		{"no filter", image.Filter{}, []string{a.ImageID, b.ImageID, c.ImageID}},
		{"user", image.Filter{UserID: "u1"}, []string{a.ImageID}},
		{"tag", image.Filter{Tag: "demo"}, []string{a.ImageID, c.ImageID}},
		{"user and tag", image.Filter{UserID: "u2", Tag: "demo"}, []string{c.ImageID}},
		{"no match", image.Filter{UserID: "u3"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)

			var ids []string
			for _, rec := range got {
				ids = append(ids, rec.ImageID)
			}
			assert.ElementsMatch(t, tt.want, ids)
		})
	}
}

func TestListNormalizesNilTags(t *testing.T) {
	svc, repo, _ := newService(t)
	require.NoError(t, repo.Put(context.Background(), &image.Record{ImageID: "x", UserID: "u1", S3Key: "u1/x.jpg"}))

	got, err := svc.List(context.Background(), image.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Tags)
}

func TestViewURL(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	rec, err := svc.Upload(ctx, "u1", nil, []byte("a"))
	require.NoError(t, err)

	u, err := svc.ViewURL(ctx, rec.ImageID)
	require.NoError(t, err)
	assert.Contains(t, u, rec.S3Key)
	assert.Contains(t, u, "expires=3600")

	_, err = svc.ViewURL(ctx, "missing")
	assert.ErrorIs(t, err, image.ErrNotFound)
}

func TestDeleteRemovesObjectThenRecord(t *testing.T) {
	svc, repo, store := newService(t)
	ctx := context.Background()

	rec, err := svc.Upload(ctx, "u1", nil, []byte("a"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rec.ImageID))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, repo.Len())

	assert.ErrorIs(t, svc.Delete(ctx, rec.ImageID), image.ErrNotFound)
}

func TestDeleteObjectFailureKeepsRecord(t *testing.T) {
	svc, repo, store := newService(t)
	ctx := context.Background()

	rec, err := svc.Upload(ctx, "u1", nil, []byte("a"))
	require.NoError(t, err)

	store.Err = errors.New("bucket unavailable")
	require.ErrorIs(t, svc.Delete(ctx, rec.ImageID), store.Err)
	assert.Equal(t, 0, repo.DeleteCalls)
	assert.Equal(t, 1, repo.Len())
}
