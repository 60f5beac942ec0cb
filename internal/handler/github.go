package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devfolio/backend/internal/utils"
)

// GitHub OAuth endpoints. The flow is the classic web-application grant:
// redirect to GitHub, exchange the callback code for an access token, read
// the profile plus primary verified email, upsert the user and hand a JWT
// back to the frontend via redirect.

const (
	githubAuthorizeURL = "https://github.com/login/oauth/authorize"
	githubTokenURL     = "https://github.com/login/oauth/access_token"
	githubUserURL      = "https://api.github.com/user"
	githubEmailsURL    = "https://api.github.com/user/emails"
)

// httpClient is the outbound client for the OAuth exchange. Overridable in
// tests.
var httpClient = &http.Client{Timeout: 10 * time.Second}

// GitHubLogin handles GET /auth/github: redirect to GitHub's consent page.
func (h *AuthHandler) GitHubLogin(c echo.Context) error {
	if h.Cfg.GitHubClientID == "" {
		return fail(c, http.StatusNotImplemented, "oauth_not_configured", "GitHub OAuth is not configured")
	}
	params := url.Values{}
	params.Set("client_id", h.Cfg.GitHubClientID)
	params.Set("scope", "user:email")
	return c.Redirect(http.StatusFound, githubAuthorizeURL+"?"+params.Encode())
}

// GitHubCallback handles GET /auth/github/callback. OAuth failures redirect
// to the frontend error page instead of rendering JSON, since the browser is
// mid-flow here.
func (h *AuthHandler) GitHubCallback(c echo.Context) error {
	frontendErr := func(code string) error {
		return c.Redirect(http.StatusFound, h.Cfg.FrontendURL+"/auth/error?error="+url.QueryEscape(code))
	}

	if e := c.QueryParam("error"); e != "" {
		return frontendErr(e)
	}
	code := c.QueryParam("code")
	if code == "" {
		return frontendErr("no_code")
	}

	ctx := c.Request().Context()
	ghToken, err := h.exchangeCode(ctx, code)
	if err != nil {
		return frontendErr("token_exchange_failed")
	}

	profile, email, err := fetchGitHubProfile(ctx, ghToken)
	if err != nil {
		return frontendErr("profile_fetch_failed")
	}
	if email == "" {
		return frontendErr("no_email")
	}

	dbctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	user, err := h.Users.UpsertGitHub(dbctx, fmt.Sprint(profile.ID), email, profile.Name, profile.AvatarURL)
	if err != nil {
		return frontendErr("account_link_failed")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return frontendErr("token_issue_failed")
	}
	return c.Redirect(http.StatusFound, h.Cfg.FrontendURL+"/auth/callback?token="+url.QueryEscape(access))
}

// exchangeCode swaps the callback code for a GitHub access token.
func (h *AuthHandler) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", h.Cfg.GitHubClientID)
	form.Set("client_secret", h.Cfg.GitHubClientSecret)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, githubTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("no access_token in exchange response")
	}
	return body.AccessToken, nil
}

type githubProfile struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// fetchGitHubProfile reads the user profile and resolves the best email:
// primary verified first, then any listed address, then the public profile
// email (which may be empty).
func fetchGitHubProfile(ctx context.Context, token string) (githubProfile, string, error) {
	var profile githubProfile
	if err := githubGet(ctx, token, githubUserURL, &profile); err != nil {
		return githubProfile{}, "", err
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := githubGet(ctx, token, githubEmailsURL, &emails); err == nil {
		for _, e := range emails {
			if e.Primary && e.Verified {
				return profile, e.Email, nil
			}
		}
		if len(emails) > 0 {
			return profile, emails[0].Email, nil
		}
	}
	return profile, profile.Email, nil
}

func githubGet(ctx context.Context, token, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github API %s: status %d", rawURL, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
