package handler // declare the package name; contains HTTP handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/devfolio/backend/internal/model"
)

// All endpoints answer with the shared envelope. These helpers keep the
// handlers to one line per outcome.

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, model.OK(data))
}

func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, model.Err(code, message))
}
