package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/backend/internal/middleware"
	"github.com/devfolio/backend/internal/model"
	"github.com/devfolio/backend/internal/queue"
	"github.com/devfolio/backend/internal/repository"
)

// ResumeStore is what the resume endpoints need from persistence.
type ResumeStore interface {
	Create(ctx context.Context, userID string, in model.ResumeInput) (model.Resume, error)
	ListByOwner(ctx context.Context, userID string, limit, offset int64) ([]model.Resume, error)
	Get(ctx context.Context, id, userID string) (model.Resume, error)
	Update(ctx context.Context, id, userID string, in model.ResumeUpdate) (model.Resume, error)
	SoftDelete(ctx context.Context, id, userID string) error
	Duplicate(ctx context.Context, id, userID string) (model.Resume, error)
}

// ResumeHandler implements the owner-scoped resume endpoints. Every route
// sits behind JWTAuth; a resume owned by someone else is indistinguishable
// from one that does not exist.
type ResumeHandler struct {
	Resumes ResumeStore
	Events  *queue.Publisher
}

func NewResumeHandler(resumes ResumeStore, events *queue.Publisher) *ResumeHandler {
	return &ResumeHandler{Resumes: resumes, Events: events}
}

// List handles GET /resumes with pagination, newest first.
func (h *ResumeHandler) List(c echo.Context) error {
	uid := middleware.CurrentUserID(c)
	limit := queryInt64(c, "limit", 10)
	offset := queryInt64(c, "offset", 0)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	resumes, err := h.Resumes.ListByOwner(ctx, uid, limit, offset)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, resumes)
}

// Create handles POST /resumes.
func (h *ResumeHandler) Create(c echo.Context) error {
	var in model.ResumeInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
	}
	if err := c.Validate(&in); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	resume, err := h.Resumes.Create(ctx, middleware.CurrentUserID(c), in)
	if err != nil {
		return err
	}
	h.publish(c, queue.ActionCreated, resume.ID)
	return ok(c, http.StatusCreated, resume)
}

// Get handles GET /resumes/:id.
func (h *ResumeHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	resume, err := h.Resumes.Get(ctx, c.Param("id"), middleware.CurrentUserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "not_found", "resume not found")
	}
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, resume)
}

// Update handles PUT /resumes/:id as a partial update: only the supplied
// fields change.
func (h *ResumeHandler) Update(c echo.Context) error {
	var in model.ResumeUpdate
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
	}
	if err := c.Validate(&in); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	resume, err := h.Resumes.Update(ctx, c.Param("id"), middleware.CurrentUserID(c), in)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "not_found", "resume not found")
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return fail(c, http.StatusConflict, "slug_taken", "slug already taken")
	}
	if err != nil {
		return err
	}
	h.publish(c, queue.ActionUpdated, resume.ID)
	return ok(c, http.StatusOK, resume)
}

// Delete handles DELETE /resumes/:id (soft delete).
func (h *ResumeHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id := c.Param("id")
	err := h.Resumes.SoftDelete(ctx, id, middleware.CurrentUserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "not_found", "resume not found")
	}
	if err != nil {
		return err
	}
	h.publish(c, queue.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}

// Duplicate handles POST /resumes/:id/duplicate: clone under a fresh id.
func (h *ResumeHandler) Duplicate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	resume, err := h.Resumes.Duplicate(ctx, c.Param("id"), middleware.CurrentUserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "not_found", "resume not found")
	}
	if err != nil {
		return err
	}
	h.publish(c, queue.ActionCreated, resume.ID)
	return ok(c, http.StatusCreated, resume)
}

func (h *ResumeHandler) publish(c echo.Context, action, id string) {
	h.Events.Publish(c.Request().Context(), queue.ResourceEvent{
		Resource: "resume",
		Action:   action,
		ID:       id,
		Actor:    middleware.CurrentUserID(c),
		At:       time.Now().UTC(),
	})
}
