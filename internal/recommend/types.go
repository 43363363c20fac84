// Package recommend 个性化推荐：画像构建、多路候选召回、去重、打分、多样性配额
package recommend

import (
	"context"
	"time"

	"github.com/user/reelmate/internal/model"
)

// Category 候选来源分类，由生成器直接标注
type Category int

const (
	CategoryGenre Category = iota
	CategoryDirector
	CategoryActor
	CategorySimilar
	CategoryOther
)

// categoryOrder 多样性配额的优先级，同时也是最终结果的分组顺序
var categoryOrder = []Category{CategoryGenre, CategoryDirector, CategoryActor, CategorySimilar, CategoryOther}

func (c Category) String() string {
	switch c {
	case CategoryGenre:
		return "genre"
	case CategoryDirector:
		return "director"
	case CategoryActor:
		return "actor"
	case CategorySimilar:
		return "similar"
	default:
		return "other"
	}
}

// MarshalText 让 JSON 输出可读的分类名
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Role 人物在影片中的身份
type Role string

const (
	RoleDirector Role = "Director"
	RoleActor    Role = "Actor"
)

// GenreCount 类型偏好
type GenreCount struct {
	GenreID int    `json:"genre_id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
}

// PersonCount 人物偏好
type PersonCount struct {
	PersonID int    `json:"person_id"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Count    int    `json:"count"`
}

// Profile 用户口味画像，每次请求重新计算，不落库
type Profile struct {
	UserID         int
	WatchedCount   int
	ReviewCount    int
	FavoriteMovies []model.Movie
	TopGenres      []GenreCount
	TopPeople      []PersonCount
	// GenreCounts genreID -> 已看影片中出现次数，打分时使用
	GenreCounts map[int]int
}

// Candidate 候选推荐
type Candidate struct {
	Movie    model.Movie `json:"movie"`
	Reason   string      `json:"reason"`
	Category Category    `json:"category"`
	Score    float64     `json:"score"`
}

// Result 个性化推荐结果
type Result struct {
	Items       []Candidate `json:"items"`
	CacheHit    bool        `json:"cache_hit"`
	Degraded    []string    `json:"degraded,omitempty"` // 失败降级的生成器
	GeneratedAt time.Time   `json:"generated_at"`
}

// DiscoverOptions 按类型发现影片的分页与排序
type DiscoverOptions struct {
	Page   int
	SortBy string
}

// Catalog 影片目录（TMDB）
type Catalog interface {
	// GetMovieDetails 失败时返回占位对象，不返回错误
	GetMovieDetails(ctx context.Context, movieID string) model.Movie
	GetMoviesByGenre(ctx context.Context, genreID int, opts DiscoverOptions) ([]model.Movie, error)
	// GetMoviesByPerson 合并出演与执导作品，按 ID 去重后排序
	GetMoviesByPerson(ctx context.Context, personID int, sortBy string) ([]model.Movie, error)
	GetSimilarMovies(ctx context.Context, movieID string, limit int) ([]model.Movie, error)
	GetMovieCredits(ctx context.Context, movieID string) (*model.Credits, error)
}

// HistoryStore 用户观影历史
type HistoryStore interface {
	CountWatched(ctx context.Context, userID int) (int, error)
	// ListWatched 按观看时间倒序
	ListWatched(ctx context.Context, userID int) ([]model.WatchedMovie, error)
	ListPending(ctx context.Context, userID int) ([]model.WatchlistItem, error)
	// ListReviews 按评分倒序
	ListReviews(ctx context.Context, userID int) ([]model.Review, error)
	CountReviews(ctx context.Context, userID int) (int, error)
	// ExcludedMovieIDs 已看 ∪ 想看
	ExcludedMovieIDs(ctx context.Context, userID int) ([]string, error)
}
