package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/backend/internal/config"
	"github.com/devfolio/backend/internal/middleware"
	"github.com/devfolio/backend/internal/model"
	"github.com/devfolio/backend/internal/repository"
	"github.com/devfolio/backend/internal/utils"
)

// UserStore is what the auth endpoints need from persistence.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, fullName string) (model.User, error)
	GetCredentialsByEmail(ctx context.Context, email string) (repository.Credentials, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	UpsertGitHub(ctx context.Context, githubID, email, fullName, avatarURL string) (model.User, error)
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// tokenPair issues the access+refresh pair for a user id.
func (h *AuthHandler) tokenPair(userID string) (model.TokenPair, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, h.Cfg.AccessTTLMin)
	if err != nil {
		return model.TokenPair{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.JWTSecret, userID, h.Cfg.RefreshTTLDays)
	if err != nil {
		return model.TokenPair{}, err
	}
	return model.TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Register handles POST /auth/register: create the user and return tokens
// immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var in model.RegisterInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
	}
	if err := c.Validate(&in); err != nil {
		return err
	}

	hash, err := utils.HashPassword(in.Password, h.Cfg.BcryptCost)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Users.Create(ctx, in.Email, hash, in.FullName)
	if errors.Is(err, repository.ErrDuplicate) {
		return fail(c, http.StatusConflict, "email_taken", "email already registered")
	}
	if err != nil {
		return err
	}

	pair, err := h.tokenPair(user.ID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, pair)
}

// Login handles POST /auth/login. Unknown email and wrong password answer
// identically so the endpoint does not leak which emails exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var in model.LoginInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
	}
	if err := c.Validate(&in); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	creds, err := h.Users.GetCredentialsByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	}
	if err != nil {
		return err
	}
	if creds.PasswordHash == "" || !utils.VerifyPassword(creds.PasswordHash, in.Password) {
		return fail(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	}

	pair, err := h.tokenPair(creds.User.ID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, pair)
}

// Refresh handles POST /auth/refresh: exchange a valid refresh token for a
// fresh pair. Tokens are stateless, so the old refresh token simply expires.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var in model.RefreshInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
	}
	if err := c.Validate(&in); err != nil {
		return err
	}

	uid, err := utils.ParseRefreshToken(h.Cfg.JWTSecret, in.RefreshToken)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "invalid_token", "invalid or expired refresh token")
	}

	// The user must still exist; a deleted account cannot refresh.
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if _, err := h.Users.GetByID(ctx, uid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "invalid_token", "invalid or expired refresh token")
		}
		return err
	}

	pair, err := h.tokenPair(uid)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, pair)
}

// Me handles GET /auth/me behind JWTAuth.
func (h *AuthHandler) Me(c echo.Context) error {
	uid := middleware.CurrentUserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusUnauthorized, "unauthorized", "account no longer exists")
	}
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, user)
}
