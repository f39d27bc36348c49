// Package response provides shared JSON response helpers for handlers.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/radif/imagemeta/internal/event"
)

// Message is the {"message": ...} body used by every non-list response.
type Message struct {
	Message string `json:"message"`
	ImageID string `json:"imageId,omitempty"`
}

// JSON builds a response with a JSON-encoded payload and the given status code.
func JSON(status int, payload interface{}) event.Response {
	b, err := json.Marshal(payload)
	if err != nil {
		return InternalError()
	}
	return event.Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}
}

// OK builds a 200 response with payload.
func OK(payload interface{}) event.Response {
	return JSON(http.StatusOK, payload)
}

// Text builds a {"message": ...} response with the given status.
func Text(status int, message string) event.Response {
	return JSON(status, Message{Message: message})
}

// BadRequest builds a 400 response.
func BadRequest(message string) event.Response {
	return Text(http.StatusBadRequest, message)
}

// NotFound builds a 404 response.
func NotFound(message string) event.Response {
	return Text(http.StatusNotFound, message)
}

// Unauthorized builds a 401 response.
func Unauthorized(message string) event.Response {
	return Text(http.StatusUnauthorized, message)
}

// InternalError builds a 500 response with a generic message.
func InternalError() event.Response {
	return event.Response{
		StatusCode: http.StatusInternalServerError,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"message":"Internal server error"}`,
	}
}

// Write copies resp onto an http.ResponseWriter.
func Write(w http.ResponseWriter, resp event.Response) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write([]byte(resp.Body))
}
