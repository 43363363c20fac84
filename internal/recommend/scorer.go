package recommend

import (
	"math"
	"sort"
	"time"
)

// ScoreCandidate 计算单个候选的得分：热度 + 评分 + 类型偏好 + 新片加成
func ScoreCandidate(c Candidate, genreCounts map[int]int, now time.Time) float64 {
	movie := c.Movie

	score := math.Min(movie.Popularity/100, 3)
	score += math.Min((movie.VoteAverage-5)*0.4, 2)

	for _, gid := range movieGenreIDs(movie) {
		if count, ok := genreCounts[gid]; ok {
			score += float64(count) / 5
		}
	}

	if year := movie.ReleaseYear(); year > 0 {
		switch age := now.Year() - year; {
		case age <= 2:
			score += 2
		case age <= 5:
			score += 1
		}
	}
	return score
}

// Score 为每个候选打分并按分数降序排列（同分保持原顺序），不修改入参
func Score(candidates []Candidate, genreCounts map[int]int, now time.Time) []Candidate {
	scored := make([]Candidate, len(candidates))
	for i, c := range candidates {
		c.Score = ScoreCandidate(c, genreCounts, now)
		scored[i] = c
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
