package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/sauvesaveurs/marketplace-api/internal/config"
	"github.com/sauvesaveurs/marketplace-api/internal/handler"
	"github.com/sauvesaveurs/marketplace-api/internal/middleware"
)

// RegisterRoutes registers the routes that carry no authentication at all:
// the health check for load balancers and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the session endpoints under /v1/auth plus the
// account endpoints shared by both roles under /v1. Logout stays outside
// the JWT middleware so an expired access token does not block it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, p *handler.ProfileHandler, n *handler.NotificationHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)

	auth.GET("/profile", p.Get)
	auth.PUT("/profile", p.Update)
	auth.PUT("/profile/password", p.ChangePassword)
	auth.DELETE("/account", p.DeleteAccount)

	auth.GET("/notifications", n.List)
	auth.DELETE("/notifications", n.Clear)
}

// RegisterPublic registers the unauthenticated browse surface. Shop and bag
// listings are read-heavy, so they sit behind the Redis response cache and
// the token-bucket rate limiter when Redis is available.
func RegisterPublic(e *echo.Echo, h *handler.PublicBrowseHandler, rdb *redis.Client) {
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	g := e.Group(
		"/v1",
		middleware.NewTokenBucket(rlCfg, rdb),
		middleware.NewRedisCache(cacheCfg, rdb),
	)
	g.GET("/search", h.Search)
	g.GET("/shops", h.ListShops)
	g.GET("/shops/nearby", h.ShopsNearby)
	g.GET("/shops/:shop_id", h.GetShop)
	g.GET("/bags", h.ListBags)
	g.GET("/bags/nearby", h.BagsNearby)
}

// RegisterAdmin registers the out-of-band ops endpoints. They are token
// guarded inside the handler and effectively off when no token is set.
func RegisterAdmin(e *echo.Echo, h *handler.AdminShopHandler) {
	e.PUT("/v1/admin/shops/:shop_id/status", h.SetStatus)
}
