package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/backend/internal/model"
	"github.com/devfolio/backend/internal/utils"
)

// UserIDKey is the context key under which JWTAuth stores the
// authenticated user's id.
const UserIDKey = "user_id"

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject into the request context. The provided
// secret must match the one used when issuing tokens. Handlers behind this
// middleware read the user id via CurrentUserID.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, model.Err("unauthorized", "missing bearer token"))
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			uid, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, model.Err("unauthorized", "invalid or expired token"))
			}
			c.Set(UserIDKey, uid)
			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated user's id, or "" when the
// request did not pass through JWTAuth.
func CurrentUserID(c echo.Context) string {
	if v, ok := c.Get(UserIDKey).(string); ok {
		return v
	}
	return ""
}
