package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/devfolio/backend/internal/config"
	"github.com/devfolio/backend/internal/handler"
	"github.com/devfolio/backend/internal/middleware"
)

// Deps bundles everything the engine needs. Tests build a Deps with fake
// stores and a nil Redis client to get a fully wired engine without any
// external services.
type Deps struct {
	Cfg        config.Config
	Health     *handler.HealthHandler
	Items      *handler.ItemHandler
	Auth       *handler.AuthHandler
	Resumes    *handler.ResumeHandler
	Portfolios *handler.PortfolioHandler
	Uploads    *handler.UploadHandler
	Redis      *redis.Client // nil disables rate limiting and caching
}

// New builds the Echo engine: recover + CORS + rate limiting globally, the
// response cache on public GET routes, JWT on everything owner-scoped.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.Cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), d.Redis))

	cache := middleware.ResponseCache(config.LoadCacheConfig(), d.Redis)
	jwt := middleware.JWTAuth(d.Cfg.JWTSecret)

	e.GET("/", handler.Root)
	e.GET("/health", d.Health.Health)

	// Public example resource.
	e.POST("/items", d.Items.Create)
	e.GET("/items", d.Items.List, cache)
	e.GET("/items/:id", d.Items.Get, cache)
	e.PUT("/items/:id", d.Items.Update)
	e.DELETE("/items/:id", d.Items.Delete)

	// Authentication.
	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.GET("/github", d.Auth.GitHubLogin)
	auth.GET("/github/callback", d.Auth.GitHubCallback)
	auth.GET("/me", d.Auth.Me, jwt)

	// Owner-scoped resources.
	resumes := e.Group("/resumes", jwt)
	resumes.GET("", d.Resumes.List)
	resumes.POST("", d.Resumes.Create)
	resumes.GET("/:id", d.Resumes.Get)
	resumes.PUT("/:id", d.Resumes.Update)
	resumes.DELETE("/:id", d.Resumes.Delete)
	resumes.POST("/:id/duplicate", d.Resumes.Duplicate)

	portfolios := e.Group("/portfolios", jwt)
	portfolios.GET("", d.Portfolios.List)
	portfolios.POST("", d.Portfolios.Create)
	portfolios.GET("/:id", d.Portfolios.Get)
	portfolios.PUT("/:id", d.Portfolios.Update)
	portfolios.DELETE("/:id", d.Portfolios.Delete)

	uploads := e.Group("/uploads", jwt)
	uploads.POST("/presign", d.Uploads.Presign)

	return e
}
