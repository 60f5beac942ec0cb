package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/devfolio/backend/internal/model"
)

// HTTPErrorHandler renders every error that escapes a handler as the shared
// envelope. Validation failures become a 422 with field detail, Echo's own
// errors (404 route miss, method not allowed) keep their status, and
// anything else is logged and reported as an opaque 500 so database or
// connectivity details never leak to the caller.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	switch e := err.(type) {
	case validator.ValidationErrors:
		_ = c.JSON(http.StatusUnprocessableEntity,
			model.Err("validation_error", validationMessage(e)))
	case *echo.HTTPError:
		msg := fmt.Sprint(e.Message)
		if e.Code >= 500 {
			logrus.WithError(err).WithField("path", c.Request().URL.Path).Error("request failed")
			msg = "an unexpected error occurred"
		}
		_ = c.JSON(e.Code, model.Err("request_failed", msg))
	default:
		logrus.WithError(err).WithField("path", c.Request().URL.Path).Error("request failed")
		_ = c.JSON(http.StatusInternalServerError,
			model.Err("internal_server_error", "an unexpected error occurred"))
	}
}

// validationMessage flattens up to three field errors into one line, e.g.
// "Name: required; Price: gte".
func validationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, 3)
	for i, fe := range errs {
		if i == 3 {
			break
		}
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}
