package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/devfolio/backend/internal/middleware"
	"github.com/devfolio/backend/internal/storage"
)

// Presigner is what the upload endpoint needs from object storage.
// Implemented by storage.Client.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// UploadHandler hands out presigned URLs so clients upload directly to the
// bucket; file bytes never pass through the API.
type UploadHandler struct {
	Storage Presigner // nil means uploads are not configured
}

func NewUploadHandler(s Presigner) *UploadHandler { return &UploadHandler{Storage: s} }

const presignExpiry = 5 * time.Minute

type presignRequest struct {
	Filename    string `json:"filename" validate:"required,min=1,max=255"`
	ContentType string `json:"content_type" validate:"omitempty,max=255"`
}

type presignResponse struct {
	Key         string `json:"key"`
	UploadURL   string `json:"upload_url"`
	DownloadURL string `json:"download_url"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// Presign handles POST /uploads/presign behind JWTAuth. Object keys are
// scoped per user and prefixed with a uuid so uploads can never collide or
// overwrite each other.
func (h *UploadHandler) Presign(c echo.Context) error {
	if h.Storage == nil {
		return fail(c, http.StatusNotImplemented, "storage_not_configured", "object storage is not configured")
	}

	var in presignRequest
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
	}
	if err := c.Validate(&in); err != nil {
		return err
	}

	key := fmt.Sprintf("uploads/%s/%s-%s",
		middleware.CurrentUserID(c), uuid.NewString(), storage.SanitizeFilename(in.Filename))

	ctx := c.Request().Context()
	uploadURL, err := h.Storage.PresignPut(ctx, key, in.ContentType, presignExpiry)
	if err != nil {
		return err
	}
	downloadURL, err := h.Storage.PresignGet(ctx, key, presignExpiry)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, presignResponse{
		Key:         key,
		UploadURL:   uploadURL,
		DownloadURL: downloadURL,
		ExpiresIn:   int(presignExpiry / time.Second),
	})
}
