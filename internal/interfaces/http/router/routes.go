// Package router 提供 HTTP 路由配置
package router

import (
	"streamguide-api/internal/config"
	"streamguide-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, cfg *config.Config, h Handlers) {
	// 认证管理（公开）
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", h.Auth.Logout)
	}

	// 目录直通（公开）
	catalog := v1.Group("/catalog")
	{
		catalog.GET("/trending", h.Catalog.Trending)
		catalog.GET("/genres", h.Catalog.Genres)
		catalog.GET("/:media_type/:id", h.Catalog.Detail)
	}

	// 受保护路由
	authed := v1.Group("")
	authed.Use(middleware.Auth(middleware.AuthConfig{
		Secret:  cfg.Security.JWT.Secret,
		Issuer:  cfg.Security.JWT.Issuer,
		Enabled: true,
	}))
	authed.Use(middleware.Identity())

	// 智能检索
	authed.POST("/search", h.Search.Search)
	authed.GET("/search", h.Search.SearchGet)

	// 检索历史
	history := authed.Group("/search/history")
	{
		history.GET("", h.History.List)
		history.DELETE("", h.History.Clear)
		history.DELETE("/:id", h.History.Delete)
	}

	// 用户管理
	users := authed.Group("/users")
	{
		users.GET("/me", h.User.GetMe)
		users.PUT("/me", h.User.UpdateMe)
		users.GET("/me/preferences", h.User.GetPreferences)
		users.PUT("/me/preferences", h.User.UpdatePreferences)

		// 管理员专属
		admin := users.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("", h.User.ListUsers)
			admin.PUT("/:id/role", h.User.UpdateUserRole)
			admin.DELETE("/:id", h.User.DeleteUser)
		}
	}

	// 片单管理
	watchlist := authed.Group("/watchlist")
	{
		watchlist.GET("", h.Watchlist.List)
		watchlist.POST("", h.Watchlist.Add)
		watchlist.GET("/:id", h.Watchlist.Get)
		watchlist.PUT("/:id", h.Watchlist.Update)
		watchlist.DELETE("/:id", h.Watchlist.Remove)
	}
}
