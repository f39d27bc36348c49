package image_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radif/imagemeta/internal/event"
	"github.com/radif/imagemeta/internal/image"
	"github.com/radif/imagemeta/internal/image/imagetest"
)

func newHandler(t *testing.T) (*image.Handler, *imagetest.Repository, *imagetest.Storage) {
	t.Helper()
	repo := imagetest.NewRepository()
	store := imagetest.NewStorage()
	return image.NewHandler(image.NewService(repo, store, zap.NewNop())), repo, store
}

func decode(t *testing.T, body string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), v))
}

func upload(t *testing.T, h *image.Handler, body string) string {
	t.Helper()
	resp, err := h.Upload(context.Background(), event.Request{HTTPMethod: "POST", Path: "/upload", Body: body})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	var out map[string]string
	decode(t, resp.Body, &out)
	assert.Equal(t, "Upload success", out["message"])
	return out["imageId"]
}

func TestUploadHandler(t *testing.T) {
	h, repo, store := newHandler(t)

	id := upload(t, h, `{"userId":"u1","tags":["test","demo"],"image":"SGVsbG8gV29ybGQ="}`)
	require.NotEmpty(t, id)

	rec, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, []string{"test", "demo"}, rec.Tags)
	assert.Equal(t, "u1/"+id+".jpg", rec.S3Key)

	_, ok := store.Object(rec.S3Key)
	assert.True(t, ok)
}

func TestUploadHandlerInvalidInput(t *testing.T) {
	bodies := map[string]string{
		"empty body":      ``,
		"not json":        `image=abc`,
		"json array":      `[]`,
		"missing image":   `{"userId":"u1"}`,
		"missing userId":  `{"image":"SGVsbG8="}`,
		"null userId":     `{"userId":null,"image":"SGVsbG8="}`,
		"null image":      `{"userId":"u1","image":null}`,
		"bad base64":      `{"userId":"u1","image":"not base64!!"}`,
		"numeric userId":  `{"userId":7,"image":"SGVsbG8="}`,
		"tags not a list": `{"userId":"u1","image":"SGVsbG8=","tags":"demo"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			h, repo, store := newHandler(t)

			resp, err := h.Upload(context.Background(), event.Request{Body: body})
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.JSONEq(t, `{"message":"Invalid input"}`, resp.Body)

			assert.Equal(t, 0, store.UploadCalls)
			assert.Equal(t, 0, repo.PutCalls)
		})
	}
}

func TestUploadHandlerAcceptsEmptyStrings(t *testing.T) {
	tests := []struct {
		name, body, userID string
		size               int
	}{
		{"empty userId", `{"userId":"","image":"SGVsbG8="}`, "", 5},
		{"empty image", `{"userId":"u1","image":""}`, "u1", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo, store := newHandler(t)

			id := upload(t, h, tt.body)
			rec, err := repo.Get(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, rec.UserID)

			obj, ok := store.Object(rec.S3Key)
			require.True(t, ok)
			assert.Len(t, obj.Data, tt.size)
		})
	}
}

func TestUploadHandlerStoreFailure(t *testing.T) {
	h, _, store := newHandler(t)
	store.Err = errors.New("access denied")

	_, err := h.Upload(context.Background(), event.Request{Body: `{"userId":"u1","image":"SGVsbG8="}`})
	assert.ErrorIs(t, err, store.Err)
}

func TestListHandler(t *testing.T) {
	h, _, _ := newHandler(t)
	upload(t, h, `{"userId":"u1","tags":["test"],"image":"SGVsbG8="}`)
	upload(t, h, `{"userId":"u2","image":"SGVsbG8="}`)

	resp, err := h.List(context.Background(), event.Request{})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var all []image.Record
	decode(t, resp.Body, &all)
	assert.Len(t, all, 2)

	resp, err = h.List(context.Background(), event.Request{QueryStringParameters: map[string]string{"userId": "u1"}})
	require.NoError(t, err)
	var filtered []map[string]interface{}
	decode(t, resp.Body, &filtered)
	require.Len(t, filtered, 1)
	assert.Equal(t, "u1", filtered[0]["userId"])
	for _, field := range []string{"imageId", "userId", "tags", "createdAt", "s3Key"} {
		assert.Contains(t, filtered[0], field)
	}
}

func TestListHandlerEmptyIsArray(t *testing.T) {
	h, _, _ := newHandler(t)

	resp, err := h.List(context.Background(), event.Request{QueryStringParameters: map[string]string{"tag": "none"}})
	require.NoError(t, err)
	assert.Equal(t, "[]", resp.Body)
}

func TestViewHandler(t *testing.T) {
	h, _, _ := newHandler(t)
	id := upload(t, h, `{"userId":"u1","image":"SGVsbG8="}`)

	resp, err := h.View(context.Background(), event.Request{PathParameters: map[string]string{"imageId": id}})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]string
	decode(t, resp.Body, &out)
	assert.NotEmpty(t, out["url"])

	resp, err = h.View(context.Background(), event.Request{PathParameters: map[string]string{"imageId": "unknown"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Image not found"}`, resp.Body)

	resp, err = h.View(context.Background(), event.Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Missing imageId"}`, resp.Body)
}

func TestDeleteHandler(t *testing.T) {
	h, repo, _ := newHandler(t)
	id := upload(t, h, `{"userId":"u1","image":"SGVsbG8="}`)
	req := event.Request{HTTPMethod: "DELETE", PathParameters: map[string]string{"imageId": id}}

	resp, err := h.Delete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Deleted successfully"}`, resp.Body)

	_, err = repo.Get(context.Background(), id)
	assert.ErrorIs(t, err, image.ErrNotFound)

	resp, err = h.Delete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = h.View(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = h.Delete(context.Background(), event.Request{PathParameters: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Missing imageId"}`, resp.Body)
}
