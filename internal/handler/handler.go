package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/reelmate/internal/config"
	"github.com/user/reelmate/internal/model"
	"github.com/user/reelmate/internal/recommend"
)

// Recommender 个性化推荐服务
type Recommender interface {
	GetPersonalizedRecommendations(ctx context.Context, userID, limit int, forceRefresh bool) (*recommend.Result, error)
	InvalidateCache(userID int) bool
}

// ActivityStore 用户观影行为的写入
type ActivityStore interface {
	MarkWatched(ctx context.Context, watched *model.WatchedMovie) error
	RemoveWatched(ctx context.Context, userID int, movieID string) (bool, error)
	AddToWatchlist(ctx context.Context, item *model.WatchlistItem) error
	RemoveFromWatchlist(ctx context.Context, userID int, movieID string) (bool, error)
	SaveReview(ctx context.Context, review *model.Review) error
}

// Handler HTTP 处理器
type Handler struct {
	Config      *config.Config
	Recommender Recommender
	Activity    ActivityStore
}

// NewHandler 创建处理器
func NewHandler(cfg *config.Config, recommender Recommender, activity ActivityStore) *Handler {
	return &Handler{
		Config:      cfg,
		Recommender: recommender,
		Activity:    activity,
	}
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
