package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/radif/imagemeta/internal/event"
)

func TestText(t *testing.T) {
	resp := BadRequest("Invalid route")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Invalid route"}`, resp.Body)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
}

func TestMessageWithImageID(t *testing.T) {
	resp := OK(Message{Message: "Upload success", ImageID: "abc"})

	assert.JSONEq(t, `{"message":"Upload success","imageId":"abc"}`, resp.Body)
}

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, event.Response{StatusCode: http.StatusNotFound, Body: `{"message":"Image not found"}`})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Image not found"}`, rec.Body.String())
}
