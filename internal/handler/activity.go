package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/user/reelmate/internal/middleware"
	"github.com/user/reelmate/internal/model"
	"github.com/user/reelmate/internal/utils"
)

// MarkMovieReq 标记已看/想看
type MarkMovieReq struct {
	MovieID string `json:"movie_id" binding:"required,max=32"`
	Title   string `json:"title" binding:"max=255"`
}

// ReviewReq 影评
type ReviewReq struct {
	MovieID string `json:"movie_id" binding:"required,max=32"`
	Rating  int    `json:"rating" binding:"required,min=1,max=10"`
	Comment string `json:"comment" binding:"max=2000"`
}

// afterActivity 用户行为变化后推荐结果已过时
func (h *Handler) afterActivity(userID int) {
	h.Recommender.InvalidateCache(userID)
}

// MarkWatched 标记已看
// POST /api/history
func (h *Handler) MarkWatched(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	var req MarkMovieReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	record := &model.WatchedMovie{UserID: userID, MovieID: req.MovieID, Title: req.Title}
	if err := h.Activity.MarkWatched(c.Request.Context(), record); err != nil {
		_ = c.Error(err)
		utils.InternalServerError(c, "操作失败")
		return
	}
	h.afterActivity(userID)
	utils.Success(c, record)
}

// RemoveWatched 删除已看记录
// DELETE /api/history/:movie_id
func (h *Handler) RemoveWatched(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	removed, err := h.Activity.RemoveWatched(c.Request.Context(), userID, c.Param("movie_id"))
	if err != nil {
		_ = c.Error(err)
		utils.InternalServerError(c, "删除失败")
		return
	}
	if removed {
		h.afterActivity(userID)
	}
	utils.Success(c, gin.H{"removed": removed})
}

// AddToWatchlist 加入想看
// POST /api/watchlist
func (h *Handler) AddToWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	var req MarkMovieReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	item := &model.WatchlistItem{UserID: userID, MovieID: req.MovieID, Title: req.Title}
	if err := h.Activity.AddToWatchlist(c.Request.Context(), item); err != nil {
		_ = c.Error(err)
		utils.InternalServerError(c, "操作失败")
		return
	}
	h.afterActivity(userID)
	utils.Success(c, item)
}

// RemoveFromWatchlist 移出想看
// DELETE /api/watchlist/:movie_id
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	removed, err := h.Activity.RemoveFromWatchlist(c.Request.Context(), userID, c.Param("movie_id"))
	if err != nil {
		_ = c.Error(err)
		utils.InternalServerError(c, "删除失败")
		return
	}
	if removed {
		h.afterActivity(userID)
	}
	utils.Success(c, gin.H{"removed": removed})
}

// SubmitReview 提交或修改影评
// POST /api/reviews
func (h *Handler) SubmitReview(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	var req ReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	review := &model.Review{UserID: userID, MovieID: req.MovieID, Rating: req.Rating, Comment: req.Comment}
	if err := h.Activity.SaveReview(c.Request.Context(), review); err != nil {
		_ = c.Error(err)
		utils.InternalServerError(c, "保存失败")
		return
	}
	h.afterActivity(userID)
	utils.Success(c, review)
}
