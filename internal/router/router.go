package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/reelmate/internal/handler"
	"github.com/user/reelmate/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", h.Health)

	// Prometheus 指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ==================== API（需要登录）====================
	api := r.Group("/api")
	api.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		// 个性化推荐
		api.GET("/recommendations", h.GetRecommendations)
		api.DELETE("/recommendations/cache", h.InvalidateRecommendations)

		// 观影行为（写入后清除推荐缓存）
		api.POST("/history", h.MarkWatched)
		api.DELETE("/history/:movie_id", h.RemoveWatched)
		api.POST("/watchlist", h.AddToWatchlist)
		api.DELETE("/watchlist/:movie_id", h.RemoveFromWatchlist)
		api.POST("/reviews", h.SubmitReview)
	}
}
