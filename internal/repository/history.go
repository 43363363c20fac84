package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/user/reelmate/internal/model"
)

// HistoryRepository 已看记录
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Upsert 标记已看；重复标记时刷新观看时间
func (r *HistoryRepository) Upsert(ctx context.Context, h *model.WatchedMovie) error {
	if h.WatchedAt.IsZero() {
		h.WatchedAt = time.Now()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "watched_at"}),
	}).Create(h).Error
}

// ListByUser 获取用户已看列表（按观看时间倒序）
func (r *HistoryRepository) ListByUser(ctx context.Context, userID int) ([]model.WatchedMovie, error) {
	var watched []model.WatchedMovie
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Order("id DESC").
		Find(&watched).Error
	return watched, err
}

// CountByUser 统计用户已看数量
func (r *HistoryRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WatchedMovie{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

// Delete 删除已看记录，返回是否删除了数据
func (r *HistoryRepository) Delete(ctx context.Context, userID int, movieID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&model.WatchedMovie{})
	return result.RowsAffected > 0, result.Error
}
