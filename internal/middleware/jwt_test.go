package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devfolio/backend/internal/middleware"
	"github.com/devfolio/backend/internal/utils"
)

const secret = "jwt-test-secret"

func protectedEngine() *echo.Echo {
	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		return c.String(http.StatusOK, middleware.CurrentUserID(c))
	}, middleware.JWTAuth(secret))
	return e
}

func get(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthInjectsUserID(t *testing.T) {
	e := protectedEngine()
	tok, err := utils.NewAccessToken(secret, "user-42", 15)
	require.NoError(t, err)

	rec := get(e, "Bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", rec.Body.String())
}

func TestJWTAuthRejections(t *testing.T) {
	e := protectedEngine()

	wrongSecret, err := utils.NewAccessToken("other-secret", "user-42", 15)
	require.NoError(t, err)
	refresh, err := utils.NewRefreshToken(secret, "user-42", 30)
	require.NoError(t, err)
	expired, err := utils.NewAccessToken(secret, "user-42", -1)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwdw=="},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + wrongSecret},
		{"refresh token on access route", "Bearer " + refresh},
		{"expired", "Bearer " + expired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(e, tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestCurrentUserIDWithoutAuth(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "", middleware.CurrentUserID(c))
}
