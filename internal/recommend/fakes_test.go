package recommend

import (
	"context"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/user/reelmate/internal/model"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

var genreNames = map[int]string{28: "Action", 18: "Drama", 35: "Comedy", 99: "Documentary"}

// movie 构造测试影片；genres 带名称，与详情接口一致
func movie(id int, title string, genreIDs ...int) model.Movie {
	m := model.Movie{ID: id, Title: title, Popularity: 50, VoteAverage: 7}
	for _, gid := range genreIDs {
		m.Genres = append(m.Genres, model.Genre{ID: gid, Name: genreNames[gid]})
	}
	return m
}

func movies(ids ...int) []model.Movie {
	list := make([]model.Movie, 0, len(ids))
	for _, id := range ids {
		list = append(list, movie(id, "Movie "+strconv.Itoa(id)))
	}
	return list
}

// fakeCatalog 实现 Catalog；未配置的详情返回占位对象
type fakeCatalog struct {
	details  map[string]model.Movie
	credits  map[string]*model.Credits
	byGenre  map[int][]model.Movie
	byPerson map[int][]model.Movie
	similar  map[string][]model.Movie

	creditsErr map[string]error
	genreErr   error
	personErr  error
	similarErr error

	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeCatalog) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeCatalog) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeCatalog) GetMovieDetails(ctx context.Context, movieID string) model.Movie {
	f.record("details")
	if m, ok := f.details[movieID]; ok {
		return m
	}
	return model.PlaceholderMovie(movieID)
}

func (f *fakeCatalog) GetMoviesByGenre(ctx context.Context, genreID int, opts DiscoverOptions) ([]model.Movie, error) {
	f.record("genre")
	f.record("genre:" + strconv.Itoa(genreID))
	if f.genreErr != nil {
		return nil, f.genreErr
	}
	return f.byGenre[genreID], nil
}

func (f *fakeCatalog) GetMoviesByPerson(ctx context.Context, personID int, sortBy string) ([]model.Movie, error) {
	f.record("person")
	if f.personErr != nil {
		return nil, f.personErr
	}
	return f.byPerson[personID], nil
}

func (f *fakeCatalog) GetSimilarMovies(ctx context.Context, movieID string, limit int) ([]model.Movie, error) {
	f.record("similar")
	if f.similarErr != nil {
		return nil, f.similarErr
	}
	return f.similar[movieID], nil
}

func (f *fakeCatalog) GetMovieCredits(ctx context.Context, movieID string) (*model.Credits, error) {
	f.record("credits")
	if err := f.creditsErr[movieID]; err != nil {
		return nil, err
	}
	if c, ok := f.credits[movieID]; ok {
		return c, nil
	}
	return &model.Credits{}, nil
}

// fakeHistory 实现 HistoryStore；watched 按观看时间倒序，reviews 按评分倒序
type fakeHistory struct {
	watched []model.WatchedMovie
	pending []model.WatchlistItem
	reviews []model.Review
	err     error
}

func (f *fakeHistory) CountWatched(ctx context.Context, userID int) (int, error) {
	return len(f.watched), f.err
}

func (f *fakeHistory) ListWatched(ctx context.Context, userID int) ([]model.WatchedMovie, error) {
	return f.watched, f.err
}

func (f *fakeHistory) ListPending(ctx context.Context, userID int) ([]model.WatchlistItem, error) {
	return f.pending, f.err
}

func (f *fakeHistory) ListReviews(ctx context.Context, userID int) ([]model.Review, error) {
	return f.reviews, f.err
}

func (f *fakeHistory) CountReviews(ctx context.Context, userID int) (int, error) {
	return len(f.reviews), f.err
}

func (f *fakeHistory) ExcludedMovieIDs(ctx context.Context, userID int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]string, 0, len(f.watched)+len(f.pending))
	for _, w := range f.watched {
		ids = append(ids, w.MovieID)
	}
	for _, p := range f.pending {
		ids = append(ids, p.MovieID)
	}
	return ids, nil
}

// newFixture 5 部已看影片：Action(4) Drama(2) Comedy(1)
//
// 喜欢的影片为 1（评分 9）加最近看过的 5,4,3,2；
// 导演 100 与演员 200 各出现两次。
func newFixture() (*fakeHistory, *fakeCatalog) {
	history := &fakeHistory{
		watched: []model.WatchedMovie{
			{UserID: 1, MovieID: "5", Title: "Five"},
			{UserID: 1, MovieID: "4", Title: "Four"},
			{UserID: 1, MovieID: "3", Title: "Three"},
			{UserID: 1, MovieID: "2", Title: "Two"},
			{UserID: 1, MovieID: "1", Title: "One"},
		},
		pending: []model.WatchlistItem{{UserID: 1, MovieID: "107"}},
		reviews: []model.Review{
			{UserID: 1, MovieID: "1", Rating: 9},
			{UserID: 1, MovieID: "2", Rating: 5},
		},
	}

	catalog := &fakeCatalog{
		details: map[string]model.Movie{
			"1": movie(1, "One", 28, 18),
			"2": movie(2, "Two", 28),
			"3": movie(3, "Three", 28, 35),
			"4": movie(4, "Four", 28, 18),
			"5": movie(5, "Five"),
		},
		credits: map[string]*model.Credits{
			"1": {
				Crew: []model.CrewMember{
					{ID: 100, Name: "Nolan", Job: "Director"},
					{ID: 100, Name: "Nolan", Job: "Director"},
					{ID: 300, Name: "Zimmer", Job: "Original Music Composer"},
				},
				Cast: []model.CastMember{
					{ID: 203, Name: "D", Order: 3},
					{ID: 200, Name: "A", Order: 0},
					{ID: 201, Name: "B", Order: 1},
					{ID: 202, Name: "C", Order: 2},
				},
			},
			"5": {
				Crew: []model.CrewMember{{ID: 100, Name: "Nolan", Job: "Director"}},
				Cast: []model.CastMember{{ID: 200, Name: "A", Order: 0}},
			},
		},
		byGenre: map[int][]model.Movie{
			28: movies(3, 101, 102, 103, 104, 105, 106, 107, 108),
			18: movies(110, 111, 112),
			35: movies(120),
			99: movies(199),
		},
		byPerson: map[int][]model.Movie{
			100: movies(130, 131, 132, 133),
			200: movies(140, 141, 101),
		},
		similar: map[string][]model.Movie{
			"1": movies(150, 151, 152, 153),
			"5": movies(160),
		},
	}
	return history, catalog
}
