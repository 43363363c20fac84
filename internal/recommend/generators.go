package recommend

import (
	"context"
	"fmt"

	"github.com/user/reelmate/internal/model"
)

// Generator 候选召回策略
type Generator interface {
	Name() string
	// Generate 出错时调用方按降级处理，不影响其他生成器
	Generate(ctx context.Context, profile *Profile, excluded map[string]struct{}, limit int) ([]Candidate, error)
}

// GeneratorResult 单个生成器的运行结果；Degraded 为 true 表示来源失败，而不是没有匹配
type GeneratorResult struct {
	Name       string
	Candidates []Candidate
	Degraded   bool
	Err        error
}

// collector 按每个种子和总数上限收集候选，跳过排除集合中的影片
type collector struct {
	excluded map[string]struct{}
	limit    int
	items    []Candidate
}

func newCollector(excluded map[string]struct{}, limit int) *collector {
	return &collector{excluded: excluded, limit: limit, items: make([]Candidate, 0, limit)}
}

func (c *collector) full() bool {
	return len(c.items) >= c.limit
}

// take 最多收集 perSeed 条，返回实际收集数
func (c *collector) take(movies []model.Movie, perSeed int, reason string, category Category) int {
	taken := 0
	for _, m := range movies {
		if taken >= perSeed || c.full() {
			break
		}
		key := m.Key()
		if key == "" {
			continue
		}
		if _, ok := c.excluded[key]; ok {
			continue
		}
		m.NormalizeGenres()
		c.items = append(c.items, Candidate{Movie: m, Reason: reason, Category: category})
		taken++
	}
	return taken
}

// GenreGenerator 按偏好类型召回热门影片
type GenreGenerator struct {
	catalog Catalog
	opts    Options
}

func NewGenreGenerator(catalog Catalog, opts Options) *GenreGenerator {
	return &GenreGenerator{catalog: catalog, opts: opts}
}

func (g *GenreGenerator) Name() string { return "genre" }

func (g *GenreGenerator) Generate(ctx context.Context, profile *Profile, excluded map[string]struct{}, limit int) ([]Candidate, error) {
	col := newCollector(excluded, limit)
	for i, genre := range profile.TopGenres {
		if i >= g.opts.TopGenres || col.full() {
			break
		}
		movies, err := g.catalog.GetMoviesByGenre(ctx, genre.GenreID, DiscoverOptions{Page: 1, SortBy: "popularity.desc"})
		if err != nil {
			return nil, fmt.Errorf("discover genre %d: %w", genre.GenreID, err)
		}
		name := genre.Name
		if name == "" {
			name = fmt.Sprintf("#%d", genre.GenreID)
		}
		col.take(movies, g.opts.PerGenre, "genre match: "+name, CategoryGenre)
	}
	return col.items, nil
}

// PersonGenerator 按偏好导演/演员召回作品
type PersonGenerator struct {
	catalog Catalog
	opts    Options
}

func NewPersonGenerator(catalog Catalog, opts Options) *PersonGenerator {
	return &PersonGenerator{catalog: catalog, opts: opts}
}

func (g *PersonGenerator) Name() string { return "person" }

// significantPeople 出现不止一次的人物；没有则取前 FallbackPeople 位；最多 MaxPeople 位
func (g *PersonGenerator) significantPeople(people []PersonCount) []PersonCount {
	var picked []PersonCount
	for _, p := range people {
		if p.Count > 1 {
			picked = append(picked, p)
		}
	}
	if len(picked) == 0 {
		picked = people[:min(len(people), g.opts.FallbackPeople)]
	}
	return picked[:min(len(picked), g.opts.MaxPeople)]
}

func (g *PersonGenerator) Generate(ctx context.Context, profile *Profile, excluded map[string]struct{}, limit int) ([]Candidate, error) {
	col := newCollector(excluded, limit)
	for _, person := range g.significantPeople(profile.TopPeople) {
		if col.full() {
			break
		}
		movies, err := g.catalog.GetMoviesByPerson(ctx, person.PersonID, g.opts.PersonSort)
		if err != nil {
			return nil, fmt.Errorf("person %d movies: %w", person.PersonID, err)
		}
		category := CategoryActor
		if person.Role == RoleDirector {
			category = CategoryDirector
		}
		reason := fmt.Sprintf("%s: work of %s", person.Role, person.Name)
		col.take(movies, g.opts.PerPerson, reason, category)
	}
	return col.items, nil
}

// SimilarGenerator 按喜欢的影片召回相似影片
type SimilarGenerator struct {
	catalog Catalog
	opts    Options
}

func NewSimilarGenerator(catalog Catalog, opts Options) *SimilarGenerator {
	return &SimilarGenerator{catalog: catalog, opts: opts}
}

func (g *SimilarGenerator) Name() string { return "similar" }

func (g *SimilarGenerator) Generate(ctx context.Context, profile *Profile, excluded map[string]struct{}, limit int) ([]Candidate, error) {
	col := newCollector(excluded, limit)
	for i, fav := range profile.FavoriteMovies {
		if i >= g.opts.SimilarSeeds || col.full() {
			break
		}
		movieID := fav.Key()
		if movieID == "" {
			continue
		}
		movies, err := g.catalog.GetSimilarMovies(ctx, movieID, limit)
		if err != nil {
			return nil, fmt.Errorf("similar to %s: %w", movieID, err)
		}
		title := fav.Title
		if title == "" {
			title = movieID
		}
		col.take(movies, g.opts.PerSimilar, "similar to: "+title, CategorySimilar)
	}
	return col.items, nil
}
