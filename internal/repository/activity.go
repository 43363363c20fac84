package repository

import (
	"context"

	"github.com/user/reelmate/internal/model"
)

// 以下方法供 HTTP 层写入用户行为

func (s *HistoryStore) MarkWatched(ctx context.Context, watched *model.WatchedMovie) error {
	return s.history.Upsert(ctx, watched)
}

func (s *HistoryStore) RemoveWatched(ctx context.Context, userID int, movieID string) (bool, error) {
	return s.history.Delete(ctx, userID, movieID)
}

func (s *HistoryStore) AddToWatchlist(ctx context.Context, item *model.WatchlistItem) error {
	return s.watchlist.Add(ctx, item)
}

func (s *HistoryStore) RemoveFromWatchlist(ctx context.Context, userID int, movieID string) (bool, error) {
	return s.watchlist.Remove(ctx, userID, movieID)
}

func (s *HistoryStore) SaveReview(ctx context.Context, review *model.Review) error {
	return s.review.Upsert(ctx, review)
}
