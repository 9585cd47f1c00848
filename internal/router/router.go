package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/cineview/internal/handler"
	"github.com/user/cineview/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 认证 ====================
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/oauth", h.FederatedLogin)
		auth.POST("/logout", h.Logout)
	}

	// ==================== 用户资料（需要登录）====================
	profile := r.Group("/profile")
	profile.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		profile.GET("", h.Me)
		profile.PUT("", h.UpdateProfile)
	}

	// ==================== 管理（需要管理员）====================
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth(h.Config.AppSecret), middleware.RequireAdmin())
	{
		admin.GET("/stats", h.AdminStats)
		admin.PUT("/users/:id/role", h.UpdateUserRole)
	}

	// ==================== API ====================
	// 读取接口公开，涉及个人数据的操作在 handler 内检查登录
	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		// 收藏
		api.GET("/favorites", h.ListFavorites)
		api.POST("/favorites", h.AddFavorite)
		api.DELETE("/favorites/:id", h.RemoveFavorite)
		api.GET("/favorites/suggestions", h.FavoriteSuggestions)

		// 评论
		api.GET("/comments", h.ListComments)
		api.POST("/comments", h.AddComment)
		api.POST("/comments/:id/replies", h.AddReply)
		api.DELETE("/comments/:id", h.DeleteComment)
		api.DELETE("/replies/:id", h.DeleteReply)

		// 评分
		api.POST("/ratings", h.Rate)
		api.GET("/ratings/average", h.AverageRating)
		api.GET("/ratings/me", h.MyRating)

		// 目录浏览
		api.GET("/movies/search", h.SearchMovies)
		api.GET("/movies/genre/:id", h.MoviesByGenre)
		api.GET("/movies/:id/related", h.RelatedMovies)
		api.GET("/tv/:id/related", h.RelatedTVSeries)
		api.GET("/genres", h.Genres)
	}
}
