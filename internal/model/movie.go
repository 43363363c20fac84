package model

import (
	"strconv"
	"strings"
)

// Movie 影片目录（TMDB）中的电影
type Movie struct {
	ID          int     `json:"id"`
	ExternalID  string  `json:"imdb_id,omitempty"` // 外部 ID，ID 缺失时作为去重键
	Title       string  `json:"title"`
	Overview    string  `json:"overview,omitempty"`
	PosterPath  string  `json:"poster_path,omitempty"`
	Genres      []Genre `json:"genres,omitempty"`
	GenreIDs    []int   `json:"genre_ids,omitempty"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date,omitempty"`

	// Placeholder 为 true 表示详情获取失败，仅保留了 ID
	Placeholder bool `json:"-"`
}

// Key 返回归一化后的影片标识（优先 ID，其次外部 ID）
func (m *Movie) Key() string {
	if m.ID > 0 {
		return strconv.Itoa(m.ID)
	}
	return strings.TrimSpace(m.ExternalID)
}

// ReleaseYear 解析上映年份，未知返回 0
func (m *Movie) ReleaseYear() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// NormalizeGenres 详情接口只返回 genres 对象，列表接口只返回 genre_ids，这里统一补齐
func (m *Movie) NormalizeGenres() {
	if len(m.GenreIDs) > 0 || len(m.Genres) == 0 {
		return
	}
	m.GenreIDs = make([]int, 0, len(m.Genres))
	for _, g := range m.Genres {
		m.GenreIDs = append(m.GenreIDs, g.ID)
	}
}

// Genre 类型
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Credits 演职员表
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember 演员（Order 越小番位越靠前）
type CastMember struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewMember 幕后人员
type CrewMember struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

// PlaceholderMovie 详情获取失败时的占位对象
func PlaceholderMovie(movieID string) Movie {
	m := Movie{Placeholder: true}
	if id, err := strconv.Atoi(movieID); err == nil {
		m.ID = id
	} else {
		m.ExternalID = movieID
	}
	return m
}
