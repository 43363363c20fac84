package recommend

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/user/reelmate/internal/metrics"
	"github.com/user/reelmate/internal/model"
)

// ProfileBuilder 根据观影历史与评分构建用户画像
type ProfileBuilder struct {
	history HistoryStore
	catalog Catalog
	opts    Options
	logger  zerolog.Logger
}

func NewProfileBuilder(history HistoryStore, catalog Catalog, opts Options) *ProfileBuilder {
	return &ProfileBuilder{
		history: history,
		catalog: catalog,
		opts:    opts,
		logger:  log.With().Str("component", "profile_builder").Logger(),
	}
}

// Build 已看不足 MinWatched 部时返回 *InsufficientDataError
func (b *ProfileBuilder) Build(ctx context.Context, userID int) (*Profile, error) {
	watchedCount, err := b.history.CountWatched(ctx, userID)
	if err != nil {
		return nil, unknown("count watched", err)
	}
	if watchedCount < b.opts.MinWatched {
		return nil, &InsufficientDataError{WatchedCount: watchedCount, RequiredCount: b.opts.MinWatched}
	}

	watched, err := b.history.ListWatched(ctx, userID)
	if err != nil {
		return nil, unknown("list watched", err)
	}
	reviews, err := b.history.ListReviews(ctx, userID)
	if err != nil {
		return nil, unknown("list reviews", err)
	}
	reviewCount, err := b.history.CountReviews(ctx, userID)
	if err != nil {
		return nil, unknown("count reviews", err)
	}

	favoriteIDs := b.favoriteIDs(watched, reviews)

	// 已看与喜欢的影片详情，去重后并发获取
	ids := make([]string, 0, len(watched)+len(favoriteIDs))
	for _, w := range watched {
		ids = append(ids, w.MovieID)
	}
	ids = append(ids, favoriteIDs...)
	details := b.fetchDetails(ctx, ids)

	titles := make(map[string]string, len(watched))
	for _, w := range watched {
		titles[w.MovieID] = w.Title
	}

	favorites := make([]model.Movie, 0, len(favoriteIDs))
	for _, id := range favoriteIDs {
		movie := details[id]
		if movie.Title == "" {
			movie.Title = titles[id]
		}
		favorites = append(favorites, movie)
	}

	topGenres, genreCounts := b.tallyGenres(userID, watched, details)
	topPeople := b.tallyPeople(ctx, userID, favorites)

	return &Profile{
		UserID:         userID,
		WatchedCount:   watchedCount,
		ReviewCount:    reviewCount,
		FavoriteMovies: favorites,
		TopGenres:      topGenres,
		TopPeople:      topPeople,
		GenreCounts:    genreCounts,
	}, nil
}

// favoriteIDs 高分评价（评分倒序）在前，最近看过的在后，按首次出现去重
func (b *ProfileBuilder) favoriteIDs(watched []model.WatchedMovie, reviews []model.Review) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(reviews)+b.opts.RecentFavorites)
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, r := range reviews {
		if r.Rating >= b.opts.FavoriteRating {
			add(r.MovieID)
		}
	}
	for i, w := range watched {
		if i >= b.opts.RecentFavorites {
			break
		}
		add(w.MovieID)
	}
	return ids
}

// fetchDetails 有限并发获取详情；目录失败时返回占位对象，所以这里不会出错
func (b *ProfileBuilder) fetchDetails(ctx context.Context, ids []string) map[string]model.Movie {
	details := make(map[string]model.Movie, len(ids))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(max(b.opts.DetailConcurrency, 1))

	scheduled := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := scheduled[id]; ok {
			continue
		}
		scheduled[id] = struct{}{}

		g.Go(func() error {
			movie := b.catalog.GetMovieDetails(ctx, id)
			movie.NormalizeGenres()
			mu.Lock()
			details[id] = movie
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return details
}

// tallyGenres 统计全部已看影片的类型，详情缺失的影片跳过
func (b *ProfileBuilder) tallyGenres(userID int, watched []model.WatchedMovie, details map[string]model.Movie) ([]GenreCount, map[int]int) {
	counts := make(map[int]int)
	names := make(map[int]string)
	var order []int
	skipped := 0

	for _, w := range watched {
		movie, ok := details[w.MovieID]
		if !ok || movie.Placeholder {
			skipped++
			continue
		}
		for _, g := range movieGenres(movie) {
			if _, seen := counts[g.ID]; !seen {
				order = append(order, g.ID)
			}
			counts[g.ID]++
			if names[g.ID] == "" {
				names[g.ID] = g.Name
			}
		}
	}

	if skipped > 0 {
		metrics.ProfileDegradedMovies.Add(float64(skipped))
		b.logger.Warn().Int("user_id", userID).Int("skipped", skipped).Msg("部分已看影片详情获取失败，统计类型时已跳过")
	}

	top := make([]GenreCount, 0, len(order))
	for _, id := range order {
		top = append(top, GenreCount{GenreID: id, Name: names[id], Count: counts[id]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	return top, counts
}

type personKey struct {
	id   int
	role Role
}

// tallyPeople 统计前 FavoriteCreditsCap 部喜欢影片的导演与前几位主演
func (b *ProfileBuilder) tallyPeople(ctx context.Context, userID int, favorites []model.Movie) []PersonCount {
	n := min(len(favorites), b.opts.FavoriteCreditsCap)
	if n <= 0 {
		return []PersonCount{}
	}

	credits := make([]*model.Credits, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			movieID := favorites[idx].Key()
			c, err := b.catalog.GetMovieCredits(ctx, movieID)
			if err != nil {
				b.logger.Warn().Err(err).Int("user_id", userID).Str("movie_id", movieID).Msg("获取演职员失败，跳过该影片")
				return
			}
			credits[idx] = c
		}(i)
	}
	wg.Wait()

	counts := make(map[personKey]*PersonCount)
	var order []personKey
	add := func(id int, name string, role Role) {
		key := personKey{id: id, role: role}
		pc, ok := counts[key]
		if !ok {
			pc = &PersonCount{PersonID: id, Name: name, Role: role}
			counts[key] = pc
			order = append(order, key)
		}
		pc.Count++
	}

	for _, c := range credits {
		if c == nil {
			continue
		}
		directors := make(map[int]struct{})
		for _, crew := range c.Crew {
			if crew.Job != string(RoleDirector) {
				continue
			}
			if _, dup := directors[crew.ID]; dup {
				continue
			}
			directors[crew.ID] = struct{}{}
			add(crew.ID, crew.Name, RoleDirector)
		}

		cast := append([]model.CastMember(nil), c.Cast...)
		sort.SliceStable(cast, func(i, j int) bool { return cast[i].Order < cast[j].Order })
		for i := 0; i < len(cast) && i < b.opts.CastDepth; i++ {
			add(cast[i].ID, cast[i].Name, RoleActor)
		}
	}

	people := make([]PersonCount, 0, len(order))
	for _, key := range order {
		people = append(people, *counts[key])
	}
	sort.SliceStable(people, func(i, j int) bool {
		return people[i].Count > people[j].Count
	})
	return people
}

// movieGenres 详情返回 genres 对象，列表只有 genre_ids（没有名称）
func movieGenres(m model.Movie) []model.Genre {
	if len(m.Genres) > 0 {
		return m.Genres
	}
	genres := make([]model.Genre, 0, len(m.GenreIDs))
	for _, id := range m.GenreIDs {
		genres = append(genres, model.Genre{ID: id})
	}
	return genres
}

func movieGenreIDs(m model.Movie) []int {
	if len(m.GenreIDs) > 0 {
		return m.GenreIDs
	}
	ids := make([]int, 0, len(m.Genres))
	for _, g := range m.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}
