package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/user/reelmate/internal/model"
)

// WatchlistRepository 想看列表
type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Add 加入想看，已存在则忽略
func (r *WatchlistRepository) Add(ctx context.Context, item *model.WatchlistItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(item).Error
}

// Remove 移出想看
func (r *WatchlistRepository) Remove(ctx context.Context, userID int, movieID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&model.WatchlistItem{})
	return result.RowsAffected > 0, result.Error
}

// ListByUser 获取用户想看列表
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID int) ([]model.WatchlistItem, error) {
	var items []model.WatchlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error
	return items, err
}
