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

// PortfolioStore is what the portfolio endpoints need from persistence.
type PortfolioStore interface {
	Create(ctx context.Context, userID string, in model.PortfolioInput) (model.Portfolio, error)
	ListByOwner(ctx context.Context, userID string) ([]model.Portfolio, error)
	Get(ctx context.Context, id, userID string) (model.Portfolio, error)
	Update(ctx context.Context, id, userID string, in model.PortfolioUpdate) (model.Portfolio, error)
	Delete(ctx context.Context, id, userID string) error
}

// PortfolioHandler implements the owner-scoped portfolio endpoints.
type PortfolioHandler struct {
	Portfolios PortfolioStore
	Events     *queue.Publisher
}

func NewPortfolioHandler(portfolios PortfolioStore, events *queue.Publisher) *PortfolioHandler {
	return &PortfolioHandler{Portfolios: portfolios, Events: events}
}

// List handles GET /portfolios, newest first.
func (h *PortfolioHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	portfolios, err := h.Portfolios.ListByOwner(ctx, middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, portfolios)
}

// Create handles POST /portfolios. The subdomain must be unused.
func (h *PortfolioHandler) Create(c echo.Context) error {
	var in model.PortfolioInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
	}
	if err := c.Validate(&in); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	portfolio, err := h.Portfolios.Create(ctx, middleware.CurrentUserID(c), in)
	if errors.Is(err, repository.ErrDuplicate) {
		return fail(c, http.StatusConflict, "subdomain_taken", "subdomain already taken")
	}
	if err != nil {
		return err
	}
	h.publish(c, queue.ActionCreated, portfolio.ID)
	return ok(c, http.StatusCreated, portfolio)
}

// Get handles GET /portfolios/:id.
func (h *PortfolioHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	portfolio, err := h.Portfolios.Get(ctx, c.Param("id"), middleware.CurrentUserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "not_found", "portfolio not found")
	}
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, portfolio)
}

// Update handles PUT /portfolios/:id as a partial update.
func (h *PortfolioHandler) Update(c echo.Context) error {
	var in model.PortfolioUpdate
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
	}
	if err := c.Validate(&in); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	portfolio, err := h.Portfolios.Update(ctx, c.Param("id"), middleware.CurrentUserID(c), in)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "not_found", "portfolio not found")
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return fail(c, http.StatusConflict, "subdomain_taken", "subdomain already taken")
	}
	if err != nil {
		return err
	}
	h.publish(c, queue.ActionUpdated, portfolio.ID)
	return ok(c, http.StatusOK, portfolio)
}

// Delete handles DELETE /portfolios/:id.
func (h *PortfolioHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id := c.Param("id")
	err := h.Portfolios.Delete(ctx, id, middleware.CurrentUserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "not_found", "portfolio not found")
	}
	if err != nil {
		return err
	}
	h.publish(c, queue.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}

func (h *PortfolioHandler) publish(c echo.Context, action, id string) {
	h.Events.Publish(c.Request().Context(), queue.ResourceEvent{
		Resource: "portfolio",
		Action:   action,
		ID:       id,
		Actor:    middleware.CurrentUserID(c),
		At:       time.Now().UTC(),
	})
}
