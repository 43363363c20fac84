package repository

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/user/reelmate/internal/model"
)

// HistoryStore 推荐流程读取用户历史的统一入口
type HistoryStore struct {
	db        *gorm.DB
	history   *HistoryRepository
	watchlist *WatchlistRepository
	review    *ReviewRepository
}

func NewHistoryStore(db *gorm.DB, history *HistoryRepository, watchlist *WatchlistRepository, review *ReviewRepository) *HistoryStore {
	return &HistoryStore{db: db, history: history, watchlist: watchlist, review: review}
}

func (s *HistoryStore) CountWatched(ctx context.Context, userID int) (int, error) {
	return s.history.CountByUser(ctx, userID)
}

func (s *HistoryStore) ListWatched(ctx context.Context, userID int) ([]model.WatchedMovie, error) {
	return s.history.ListByUser(ctx, userID)
}

func (s *HistoryStore) ListPending(ctx context.Context, userID int) ([]model.WatchlistItem, error) {
	return s.watchlist.ListByUser(ctx, userID)
}

func (s *HistoryStore) ListReviews(ctx context.Context, userID int) ([]model.Review, error) {
	return s.review.ListByUser(ctx, userID)
}

func (s *HistoryStore) CountReviews(ctx context.Context, userID int) (int, error) {
	return s.review.CountByUser(ctx, userID)
}

const excludedMovieIDsSQL = `
SELECT COALESCE(array_agg(movie_id), '{}')
FROM (
	SELECT movie_id FROM watched_movies WHERE user_id = ?
	UNION
	SELECT movie_id FROM watchlist_items WHERE user_id = ?
) AS excluded`

// ExcludedMovieIDs 已看 ∪ 想看，一次查询返回
func (s *HistoryStore) ExcludedMovieIDs(ctx context.Context, userID int) ([]string, error) {
	var ids pq.StringArray
	row := s.db.WithContext(ctx).Raw(excludedMovieIDsSQL, userID, userID).Row()
	if err := row.Scan(&ids); err != nil {
		return nil, err
	}
	return ids, nil
}
