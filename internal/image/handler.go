package image

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/radif/imagemeta/internal/event"
	"github.com/radif/imagemeta/internal/response"
)

// Response messages returned to clients.
const (
	msgInvalidInput   = "Invalid input"
	msgUploadSuccess  = "Upload success"
	msgMissingImageID = "Missing imageId"
	msgNotFound       = "Image not found"
	msgDeleted        = "Deleted successfully"
)

// Handler holds the four image operations as event handlers.
// A returned error is a store failure the caller must surface as its own failure.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler creates a new image Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

// Image and UserID are pointers so that required checks presence only; empty
// strings are accepted.
type uploadRequest struct {
	Image  *string  `json:"image"  validate:"required" example:"SGVsbG8gV29ybGQ="`
	UserID *string  `json:"userId" validate:"required" example:"u1"`
	Tags   []string `json:"tags"   example:"test,demo"`
}

type viewData struct {
	URL string `json:"url" example:"https://images-bucket.s3.us-east-1.amazonaws.com/u1/0b6c….jpg?X-Amz-Expires=3600"`
}

// Upload godoc
//
//	@Summary		Upload image
//	@Description	Store a base64-encoded image and record its metadata.
//	@Tags			images
//	@Accept			json
//	@Produce		json
//	@Param			request	body		uploadRequest		true	"Image and owner"
//	@Success		200		{object}	response.Message
//	@Failure		400		{object}	response.Message
//	@Router			/upload [post]
func (h *Handler) Upload(ctx context.Context, req event.Request) (event.Response, error) {
	userID, tags, data, err := h.decodeUpload(req.Body)
	if err != nil {
		return response.BadRequest(msgInvalidInput), nil
	}

	rec, err := h.svc.Upload(ctx, userID, tags, data)
	if err != nil {
		return event.Response{}, err
	}

	return response.OK(response.Message{Message: msgUploadSuccess, ImageID: rec.ImageID}), nil
}

// decodeUpload parses and validates an upload body. Every failure maps to ErrInvalidInput.
func (h *Handler) decodeUpload(body string) (string, []string, []byte, error) {
	var req uploadRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return "", nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return "", nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	data, err := base64.StdEncoding.DecodeString(*req.Image)
	if err != nil {
		return "", nil, nil, fmt.Errorf("%w: image: %v", ErrInvalidInput, err)
	}
	return *req.UserID, req.Tags, data, nil
}

// List godoc
//
//	@Summary		List images
//	@Description	Return all image records, optionally filtered by owner and tag. Order is unspecified.
//	@Tags			images
//	@Produce		json
//	@Param			userId	query		string	false	"Owner filter"
//	@Param			tag		query		string	false	"Tag filter"
//	@Success		200		{array}		Record
//	@Router			/list [get]
func (h *Handler) List(ctx context.Context, req event.Request) (event.Response, error) {
	records, err := h.svc.List(ctx, Filter{
		UserID: req.Query("userId"),
		Tag:    req.Query("tag"),
	})
	if err != nil {
		return event.Response{}, err
	}
	return response.OK(records), nil
}

// View godoc
//
//	@Summary		View image
//	@Description	Return a URL to fetch the image, valid for one hour.
//	@Tags			images
//	@Produce		json
//	@Param			imageId	path		string	true	"Image ID"
//	@Success		200		{object}	viewData
//	@Failure		400		{object}	response.Message
//	@Failure		404		{object}	response.Message
//	@Router			/view/{imageId} [get]
func (h *Handler) View(ctx context.Context, req event.Request) (event.Response, error) {
	imageID := req.PathParam("imageId")
	if imageID == "" {
		return response.BadRequest(msgMissingImageID), nil
	}

	u, err := h.svc.ViewURL(ctx, imageID)
	if errors.Is(err, ErrNotFound) {
		return response.NotFound(msgNotFound), nil
	}
	if err != nil {
		return event.Response{}, err
	}

	return response.OK(viewData{URL: u}), nil
}

// Delete godoc
//
//	@Summary		Delete image
//	@Description	Remove the image object and its record.
//	@Tags			images
//	@Produce		json
//	@Param			imageId	path		string	true	"Image ID"
//	@Success		200		{object}	response.Message
//	@Failure		400		{object}	response.Message
//	@Failure		404		{object}	response.Message
//	@Router			/delete/{imageId} [delete]
func (h *Handler) Delete(ctx context.Context, req event.Request) (event.Response, error) {
	imageID := req.PathParam("imageId")
	if imageID == "" {
		return response.BadRequest(msgMissingImageID), nil
	}

	err := h.svc.Delete(ctx, imageID)
	if errors.Is(err, ErrNotFound) {
		return response.NotFound(msgNotFound), nil
	}
	if err != nil {
		return event.Response{}, err
	}

	return response.OK(response.Message{Message: msgDeleted}), nil
}
