package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/user/reelmate/internal/model"
)

// ReviewRepository 影评（每个用户每部影片一条）
type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Upsert 新增或覆盖评分
func (r *ReviewRepository) Upsert(ctx context.Context, review *model.Review) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "created_at"}),
	}).Create(review).Error
}

// ListByUser 按评分倒序，同分按时间倒序
func (r *ReviewRepository) ListByUser(ctx context.Context, userID int) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("rating DESC").
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// CountByUser 统计用户影评数量
func (r *ReviewRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}
