package model

import (
	"time"
)

// WatchedMovie 已看记录
type WatchedMovie struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_watched_user_movie;not null"`
	MovieID   string    `json:"movie_id" db:"movie_id" gorm:"uniqueIndex:idx_watched_user_movie;not null"`
	Title     string    `json:"title" db:"title"`
	WatchedAt time.Time `json:"watched_at" db:"watched_at" gorm:"index"`
}

// WatchlistItem 想看（待看）记录
type WatchlistItem struct {
	ID      int       `json:"id" db:"id"`
	UserID  int       `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_watchlist_user_movie;not null"`
	MovieID string    `json:"movie_id" db:"movie_id" gorm:"uniqueIndex:idx_watchlist_user_movie;not null"`
	Title   string    `json:"title" db:"title"`
	AddedAt time.Time `json:"added_at" db:"added_at"`
}

// Review 影评（评分 1-10）
type Review struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_review_user_movie;not null"`
	MovieID   string    `json:"movie_id" db:"movie_id" gorm:"uniqueIndex:idx_review_user_movie;not null"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
