package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"  // Echo web framework for routing
	"github.com/redis/go-redis/v9" // optional Redis client for cache/rate limiting

	"github.com/iliyamo/ai-assistant-api/internal/config"     // middleware sub-configs
	"github.com/iliyamo/ai-assistant-api/internal/handler"    // handlers implementing the endpoints
	"github.com/iliyamo/ai-assistant-api/internal/middleware" // JWT auth, rate limiting, caching
)

// RegisterRoutes registers routes that require no authentication.
// Currently this is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the authentication endpoints. Unauthenticated
// operations live under /v1/auth and carry the rate limiter (login and
// register are the abuse targets); account operations that need a
// valid access token live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Exchange a live session token for a fresh access JWT.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a session token in the body without requiring a
	// JWT, so an expired access token can still end its session.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/me/password", a.ChangePassword)
	auth.DELETE("/me", a.DeleteAccount)
	auth.GET("/users", a.ListUsers)
	// Logout-all for the authenticated user (empty body).
	auth.POST("/logout", a.Logout)
}

// RegisterChat wires the exchange, ledger and analytics endpoints. All
// of them require a valid access token. The derived read endpoints
// (history, stats, model catalog) additionally sit behind the Redis
// response cache; mutations bypass it entirely.
func RegisterChat(e *echo.Echo, h *handler.ChatHandler, jwtSecret string, rdb *redis.Client) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	g.POST("/chat", h.Chat)
	g.POST("/files", h.UploadFile)
	g.POST("/feedback", h.SubmitFeedback)

	g.GET("/models", h.Models, cache)
	g.GET("/history", h.ListHistory, cache)
	g.GET("/feedback", h.ListFeedback, cache)
	g.GET("/stats", h.GetStats, cache)
}
