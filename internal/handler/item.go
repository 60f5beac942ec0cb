package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/backend/internal/model"
	"github.com/devfolio/backend/internal/queue"
	"github.com/devfolio/backend/internal/repository"
)

// ItemStore is what the items endpoints need from persistence. The concrete
// implementation is repository.ItemRepo; tests substitute an in-memory fake.
type ItemStore interface {
	Insert(ctx context.Context, in model.ItemInput) (model.Item, error)
	List(ctx context.Context, limit, offset int64) ([]model.Item, error)
	Get(ctx context.Context, id string) (model.Item, error)
	Replace(ctx context.Context, id string, in model.ItemInput) (model.Item, error)
	Delete(ctx context.Context, id string) error
}

// ItemHandler implements the public items CRUD. Each operation is a single
// database call; requests are stateless and independent.
type ItemHandler struct {
	Items  ItemStore
	Events *queue.Publisher // nil disables event publication
}

func NewItemHandler(items ItemStore, events *queue.Publisher) *ItemHandler {
	return &ItemHandler{Items: items, Events: events}
}

const dbTimeout = 5 * time.Second

// Create handles POST /items: validate, insert, echo the stored item back
// with its database-assigned id.
func (h *ItemHandler) Create(c echo.Context) error {
	var in model.ItemInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
	}
	if err := c.Validate(&in); err != nil {
		return err // central error handler renders the 422
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	item, err := h.Items.Insert(ctx, in)
	if err != nil {
		return err
	}
	h.publish(c, queue.ActionCreated, item.ID)
	return ok(c, http.StatusCreated, item)
}

// List handles GET /items with optional limit/offset pagination. Order is
// the database's natural return order.
func (h *ItemHandler) List(c echo.Context) error {
	limit := queryInt64(c, "limit", 50)
	offset := queryInt64(c, "offset", 0)
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Items.List(ctx, limit, offset)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, items)
}

// Get handles GET /items/:id.
func (h *ItemHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	item, err := h.Items.Get(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "not_found", "item not found")
	}
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, item)
}

// Update handles PUT /items/:id as a full replace: the body is validated
// against the creation schema and overwrites every mutable field. The id is
// immutable.
func (h *ItemHandler) Update(c echo.Context) error {
	var in model.ItemInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
	}
	if err := c.Validate(&in); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	item, err := h.Items.Replace(ctx, c.Param("id"), in)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "not_found", "item not found")
	}
	if err != nil {
		return err
	}
	h.publish(c, queue.ActionUpdated, item.ID)
	return ok(c, http.StatusOK, item)
}

// Delete handles DELETE /items/:id. Deleting twice yields 404 the second
// time; the observable end state is "absent" either way.
func (h *ItemHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id := c.Param("id")
	err := h.Items.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "not_found", "item not found")
	}
	if err != nil {
		return err
	}
	h.publish(c, queue.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ItemHandler) publish(c echo.Context, action, id string) {
	h.Events.Publish(c.Request().Context(), queue.ResourceEvent{
		Resource: "item",
		Action:   action,
		ID:       id,
		At:       time.Now().UTC(),
	})
}

func queryInt64(c echo.Context, name string, def int64) int64 {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return def
}
