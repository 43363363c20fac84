package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/user/reelmate/internal/middleware"
	"github.com/user/reelmate/internal/recommend"
	"github.com/user/reelmate/internal/utils"
)

// RecommendationsResponse 推荐接口返回的数据
type RecommendationsResponse struct {
	Items       []recommend.Candidate `json:"items"`
	Total       int                   `json:"total"`
	CacheHit    bool                  `json:"cache_hit"`
	Degraded    []string              `json:"degraded,omitempty"`
	GeneratedAt int64                 `json:"generated_at"`
}

// insufficientDataBody 观影数据不足时的错误详情
type insufficientDataBody struct {
	Error         string `json:"error"`
	WatchedCount  int    `json:"watched_count"`
	RequiredCount int    `json:"required_count"`
}

// GetRecommendations 个性化推荐
// GET /api/recommendations?limit=15&refresh=false
func (h *Handler) GetRecommendations(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.BadRequest(c, "limit 参数无效")
			return
		}
		limit = n
	}
	refresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))

	result, err := h.Recommender.GetPersonalizedRecommendations(c.Request.Context(), userID, limit, refresh)
	if err != nil {
		var insufficient *recommend.InsufficientDataError
		if errors.As(err, &insufficient) {
			utils.ErrorWithData(c, http.StatusUnprocessableEntity,
				"看过的电影还太少，再多看几部就能为你推荐啦",
				insufficientDataBody{
					Error:         recommend.ErrInsufficientData.Error(),
					WatchedCount:  insufficient.WatchedCount,
					RequiredCount: insufficient.RequiredCount,
				})
			return
		}
		_ = c.Error(err)
		utils.InternalServerError(c, "获取推荐失败，请稍后重试")
		return
	}

	utils.Success(c, RecommendationsResponse{
		Items:       result.Items,
		Total:       len(result.Items),
		CacheHit:    result.CacheHit,
		Degraded:    result.Degraded,
		GeneratedAt: result.GeneratedAt.Unix(),
	})
}

// InvalidateRecommendations 清除推荐缓存
// DELETE /api/recommendations/cache
func (h *Handler) InvalidateRecommendations(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}
	utils.Success(c, gin.H{"invalidated": h.Recommender.InvalidateCache(userID)})
}
