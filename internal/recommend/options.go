package recommend

import "time"

// Options 推荐流程中的各项常量
type Options struct {
	DefaultLimit   int // 默认返回条数
	MaxLimit       int
	GeneratorLimit int // 每路生成器的总上限

	// 画像
	MinWatched         int // 构建画像所需的最少已看数
	FavoriteRating     int // 评分 >= 该值视为喜欢
	RecentFavorites    int // 最近看过的前 N 部也视为喜欢
	FavoriteCreditsCap int // 只统计前 N 部喜欢影片的演职员，控制请求量
	CastDepth          int // 每部影片统计的主演番位数
	DetailConcurrency  int // 详情并发请求数

	// 生成器
	TopGenres      int
	PerGenre       int
	MaxPeople      int
	FallbackPeople int
	PerPerson      int
	PersonSort     string // popularity 或 release_date
	SimilarSeeds   int
	PerSimilar     int

	CacheTTL time.Duration
}

// DefaultOptions 默认配置
func DefaultOptions() Options {
	return Options{
		DefaultLimit:   15,
		MaxLimit:       50,
		GeneratorLimit: 15,

		MinWatched:         3,
		FavoriteRating:     7,
		RecentFavorites:    5,
		FavoriteCreditsCap: 5,
		CastDepth:          3,
		DetailConcurrency:  4,

		TopGenres:      3,
		PerGenre:       5,
		MaxPeople:      3,
		FallbackPeople: 2,
		PerPerson:      3,
		PersonSort:     "popularity",
		SimilarSeeds:   4,
		PerSimilar:     3,

		CacheTTL: time.Hour,
	}
}
