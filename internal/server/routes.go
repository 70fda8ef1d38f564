package server

import (
	"app/internal/middleware"
	"app/internal/ratelimit"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, d Deps) {
	authLimit := middleware.RateLimit(d.Limiter, ratelimit.ProfileAuth, middleware.KeyByIP)
	apiLimit := middleware.RateLimit(d.Limiter, ratelimit.ProfileAPI, middleware.KeyByIPPath)
	searchLimit := middleware.RateLimit(d.Limiter, ratelimit.ProfileSearch, middleware.KeyByIP)

	requireAuth := middleware.AuthSession(d.Store)
	requireAdmin := middleware.AdminRoleGuard()

	//認証（未ログインで叩ける口は厳しめのIP制限）
	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register, authLimit)
	auth.POST("/login", d.Auth.Login, authLimit)
	auth.POST("/refresh", d.Auth.Refresh, authLimit)
	auth.POST("/logout", d.Auth.Logout, requireAuth)
	auth.POST("/logout-all", d.Auth.LogoutAll, requireAuth)
	auth.GET("/me", d.Auth.Me, requireAuth)
	auth.GET("/sessions", d.Auth.Sessions, requireAuth)
	auth.DELETE("/sessions", d.Auth.RevokeSession, requireAuth)

	//公開コンテンツ
	api := e.Group("", apiLimit)
	api.GET("/teachings", d.Teachings.List)
	api.GET("/teachings/:slug", d.Teachings.Detail)
	api.GET("/events", d.Events.List)
	api.GET("/events/:slug", d.Events.Detail)
	api.GET("/media", d.Media.List)
	api.GET("/media/:id/download", d.Media.DownloadURL)
	api.GET("/quotes/daily", d.Quotes.Daily)

	e.GET("/search", d.Search.Search, searchLimit)

	//管理（ログイン + ADMIN）
	admin := e.Group("/admin", apiLimit, requireAuth, requireAdmin)
	admin.POST("/teachings", d.AdminTeaching.Create)
	admin.PUT("/teachings/:id", d.AdminTeaching.Update)
	admin.DELETE("/teachings/:id", d.AdminTeaching.Delete)
	admin.POST("/events", d.AdminEvent.Create)
	admin.PUT("/events/:id", d.AdminEvent.Update)
	admin.DELETE("/events/:id", d.AdminEvent.Delete)
	admin.POST("/media/upload", d.AdminMedia.CreateUpload)
	admin.POST("/media/:id/publish", d.AdminMedia.Publish)
	admin.DELETE("/media/:id", d.AdminMedia.Delete)
}
