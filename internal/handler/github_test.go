package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devfolio/backend/internal/config"
	"github.com/devfolio/backend/internal/model"
	"github.com/devfolio/backend/internal/repository"
)

// ghUserStore records the UpsertGitHub call; the other UserStore methods are
// unused by the OAuth flow.
type ghUserStore struct {
	githubID string
	email    string
}

func (s *ghUserStore) Create(context.Context, string, string, string) (model.User, error) {
	return model.User{}, repository.ErrNotFound
}

func (s *ghUserStore) GetCredentialsByEmail(context.Context, string) (repository.Credentials, error) {
	return repository.Credentials{}, repository.ErrNotFound
}

func (s *ghUserStore) GetByID(context.Context, string) (model.User, error) {
	return model.User{}, repository.ErrNotFound
}

func (s *ghUserStore) UpsertGitHub(_ context.Context, githubID, email, fullName, avatarURL string) (model.User, error) {
	s.githubID = githubID
	s.email = email
	return model.User{ID: "linked-user", Email: email, Provider: model.ProviderGitHub}, nil
}

// roundTripperFunc lets a test reroute the OAuth requests to a local server.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func redirectTo(ts *httptest.Server) *http.Client {
	target, _ := url.Parse(ts.URL)
	return &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		r.URL.Scheme = target.Scheme
		r.URL.Host = target.Host
		return ts.Client().Transport.RoundTrip(r)
	})}
}

func ghContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec), rec
}

func ghConfig() config.Config {
	return config.Config{
		JWTSecret:          "gh-test-secret",
		AccessTTLMin:       15,
		RefreshTTLDays:     30,
		FrontendURL:        "http://localhost:3000",
		GitHubClientID:     "client-id",
		GitHubClientSecret: "client-secret",
	}
}

func TestGitHubLoginUnconfigured(t *testing.T) {
	h := NewAuthHandler(config.Config{}, &ghUserStore{})
	c, rec := ghContext(t, "/auth/github")

	require.NoError(t, h.GitHubLogin(c))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Contains(t, rec.Body.String(), "oauth_not_configured")
}

func TestGitHubLoginRedirects(t *testing.T) {
	h := NewAuthHandler(ghConfig(), &ghUserStore{})
	c, rec := ghContext(t, "/auth/github")

	require.NoError(t, h.GitHubLogin(c))
	require.Equal(t, http.StatusFound, rec.Code)
	loc := rec.Header().Get(echo.HeaderLocation)
	assert.True(t, strings.HasPrefix(loc, githubAuthorizeURL), loc)
	assert.Contains(t, loc, "client_id=client-id")
	assert.Contains(t, loc, "scope=user%3Aemail")
}

func TestGitHubCallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"gh-token"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer gh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":123,"name":"Octo","avatar_url":"https://example.com/a.png"}`))
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"email":"old@example.com","primary":false,"verified":true},{"email":"octo@example.com","primary":true,"verified":true}]`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	orig := httpClient
	httpClient = redirectTo(ts)
	defer func() { httpClient = orig }()

	store := &ghUserStore{}
	h := NewAuthHandler(ghConfig(), store)
	c, rec := ghContext(t, "/auth/github/callback?code=abc")

	require.NoError(t, h.GitHubCallback(c))
	require.Equal(t, http.StatusFound, rec.Code)

	loc := rec.Header().Get(echo.HeaderLocation)
	assert.True(t, strings.HasPrefix(loc, "http://localhost:3000/auth/callback?token="), loc)
	assert.Equal(t, "123", store.githubID)
	assert.Equal(t, "octo@example.com", store.email, "primary verified email wins")
}

func TestGitHubCallbackErrors(t *testing.T) {
	h := NewAuthHandler(ghConfig(), &ghUserStore{})

	// GitHub sent an error: bounce to the frontend error page.
	c, rec := ghContext(t, "/auth/github/callback?error=access_denied")
	require.NoError(t, h.GitHubCallback(c))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:3000/auth/error?error=access_denied", rec.Header().Get(echo.HeaderLocation))

	// No code at all.
	c, rec = ghContext(t, "/auth/github/callback")
	require.NoError(t, h.GitHubCallback(c))
	assert.Contains(t, rec.Header().Get(echo.HeaderLocation), "error=no_code")
}
