package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/user/reelmate/internal/config"
	"github.com/user/reelmate/internal/metrics"
	"github.com/user/reelmate/internal/model"
	"github.com/user/reelmate/internal/recommend"
	"github.com/user/reelmate/internal/utils"
)

// TMDBService 影片目录客户端：限流、熔断、详情合并请求与缓存
type TMDBService struct {
	client   *utils.HTTPClient
	baseURL  string
	language string
	timeout  time.Duration

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[any]
	group   singleflight.Group
	details *utils.LRUCache[string, model.Movie]
	logger  zerolog.Logger
}

func NewTMDBService(cfg config.TMDBConfig) *TMDBService {
	s := &TMDBService{
		client: utils.NewHTTPClient(cfg.Timeout, map[string]string{
			"Authorization": "Bearer " + cfg.Token,
			"Content-Type":  "application/json",
		}),
		baseURL:  cfg.BaseURL,
		language: cfg.Language,
		timeout:  cfg.Timeout,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		details:  utils.NewLRUCache[string, model.Movie](cfg.DetailCacheSize, cfg.DetailCacheTTL),
		logger:   log.With().Str("component", "tmdb").Logger(),
	}

	metrics.CatalogCircuitState.Set(0)
	s.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		// 至少 10 次请求且失败率 >= 60% 时熔断
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.6
		},
		// 404 是正常结果，不计入失败
		IsSuccessful: func(err error) bool {
			var statusErr *utils.StatusError
			return err == nil || (errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("TMDB 熔断器状态变化")
			metrics.CatalogCircuitState.Set(stateToFloat(to))
		},
	})
	return s
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// get 所有请求的统一出口：超时、限流、熔断、指标
func (s *TMDBService) get(ctx context.Context, endpoint, path string, query url.Values, target any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if query == nil {
		query = url.Values{}
	}
	query.Set("language", s.language)
	u := s.baseURL + path + "?" + query.Encode()

	if err := s.limiter.Wait(ctx); err != nil {
		metrics.CatalogRequests.WithLabelValues(endpoint, "rejected").Inc()
		return fmt.Errorf("tmdb %s: 等待限流失败: %w", endpoint, err)
	}

	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.client.GetJSON(ctx, u, target)
	})
	switch {
	case err == nil:
		metrics.CatalogRequests.WithLabelValues(endpoint, "success").Inc()
		return nil
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CatalogRequests.WithLabelValues(endpoint, "rejected").Inc()
	default:
		metrics.CatalogRequests.WithLabelValues(endpoint, "failure").Inc()
	}
	return fmt.Errorf("tmdb %s: %w", endpoint, err)
}

// GetMovieDetails 获取影片详情，失败时返回占位对象
func (s *TMDBService) GetMovieDetails(ctx context.Context, movieID string) model.Movie {
	if movie, ok := s.details.Get(movieID); ok {
		return movie
	}

	// 使用 singleflight 避免并发重复请求；共享请求不跟随首个调用方取消
	shared := context.WithoutCancel(ctx)
	val, err, _ := s.group.Do(movieID, func() (interface{}, error) {
		var movie model.Movie
		if err := s.get(shared, "details", "/movie/"+url.PathEscape(movieID), nil, &movie); err != nil {
			return nil, err
		}
		movie.NormalizeGenres()
		s.details.Set(movieID, movie)
		return movie, nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("movie_id", movieID).Msg("获取影片详情失败，使用占位数据")
		return model.PlaceholderMovie(movieID)
	}
	return val.(model.Movie)
}

type pagedMovies struct {
	Page    int           `json:"page"`
	Results []model.Movie `json:"results"`
}

// GetMoviesByGenre 按类型发现影片
func (s *TMDBService) GetMoviesByGenre(ctx context.Context, genreID int, opts recommend.DiscoverOptions) ([]model.Movie, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.SortBy == "" {
		opts.SortBy = "popularity.desc"
	}
	query := url.Values{}
	query.Set("with_genres", strconv.Itoa(genreID))
	query.Set("sort_by", opts.SortBy)
	query.Set("page", strconv.Itoa(opts.Page))

	var resp pagedMovies
	if err := s.get(ctx, "discover", "/discover/movie", query, &resp); err != nil {
		return nil, err
	}
	return normalize(resp.Results), nil
}

type personCredits struct {
	Cast []model.Movie `json:"cast"`
	Crew []struct {
		model.Movie
		Job string `json:"job"`
	} `json:"crew"`
}

// GetMoviesByPerson 出演与执导的作品合并去重，按热度或上映日期倒序
func (s *TMDBService) GetMoviesByPerson(ctx context.Context, personID int, sortBy string) ([]model.Movie, error) {
	var resp personCredits
	path := fmt.Sprintf("/person/%d/movie_credits", personID)
	if err := s.get(ctx, "person_credits", path, nil, &resp); err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(resp.Cast)+len(resp.Crew))
	movies := make([]model.Movie, 0, len(resp.Cast)+len(resp.Crew))
	add := func(m model.Movie) {
		if m.ID <= 0 {
			return
		}
		if _, ok := seen[m.ID]; ok {
			return
		}
		seen[m.ID] = struct{}{}
		movies = append(movies, m)
	}
	for _, m := range resp.Cast {
		add(m)
	}
	for _, c := range resp.Crew {
		if c.Job == "Director" {
			add(c.Movie)
		}
	}

	if sortBy == "release_date" {
		sort.SliceStable(movies, func(i, j int) bool { return movies[i].ReleaseDate > movies[j].ReleaseDate })
	} else {
		sort.SliceStable(movies, func(i, j int) bool { return movies[i].Popularity > movies[j].Popularity })
	}
	return normalize(movies), nil
}

// GetSimilarMovies 相似影片，limit <= 0 表示不截断
func (s *TMDBService) GetSimilarMovies(ctx context.Context, movieID string, limit int) ([]model.Movie, error) {
	var resp pagedMovies
	query := url.Values{}
	query.Set("page", "1")
	if err := s.get(ctx, "similar", "/movie/"+url.PathEscape(movieID)+"/similar", query, &resp); err != nil {
		return nil, err
	}
	movies := resp.Results
	if limit > 0 && len(movies) > limit {
		movies = movies[:limit]
	}
	return normalize(movies), nil
}

// GetMovieCredits 演职员表
func (s *TMDBService) GetMovieCredits(ctx context.Context, movieID string) (*model.Credits, error) {
	var credits model.Credits
	if err := s.get(ctx, "credits", "/movie/"+url.PathEscape(movieID)+"/credits", nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

func normalize(movies []model.Movie) []model.Movie {
	for i := range movies {
		movies[i].NormalizeGenres()
	}
	return movies
}
