package recommend

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/user/reelmate/internal/metrics"
)

// Service 个性化推荐入口
type Service struct {
	history    HistoryStore
	profiles   *ProfileBuilder
	generators []Generator
	cache      Cache
	opts       Options
	logger     zerolog.Logger
	now        func() time.Time
}

// NewService 生成器按 genre, person, similar 的顺序拼接，去重时靠前的优先保留
func NewService(history HistoryStore, catalog Catalog, cache Cache, opts Options) *Service {
	return &Service{
		history:  history,
		profiles: NewProfileBuilder(history, catalog, opts),
		generators: []Generator{
			NewGenreGenerator(catalog, opts),
			NewPersonGenerator(catalog, opts),
			NewSimilarGenerator(catalog, opts),
		},
		cache:  cache,
		opts:   opts,
		logger: log.With().Str("component", "recommend").Logger(),
		now:    time.Now,
	}
}

// normalizeLimit <=0 取默认值，超过上限截断
func (s *Service) normalizeLimit(limit int) int {
	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}
	return min(limit, s.opts.MaxLimit)
}

// GetPersonalizedRecommendations 返回用户的个性化推荐
//
// 已看不足时返回 *InsufficientDataError（errors.Is(err, ErrInsufficientData)），
// 历史存储等意外错误包装为 ErrUnknown。
func (s *Service) GetPersonalizedRecommendations(ctx context.Context, userID, limit int, forceRefresh bool) (*Result, error) {
	limit = s.normalizeLimit(limit)
	logger := s.logger.With().Int("user_id", userID).Int("limit", limit).Logger()

	if !forceRefresh {
		if result, ok := s.cached(userID, limit); ok {
			metrics.RecommendationRequests.WithLabelValues("cache_hit").Inc()
			logger.Debug().Int("items", len(result.Items)).Msg("命中推荐缓存")
			return result, nil
		}
	}

	start := s.now()
	result, pool, err := s.compute(ctx, userID, limit)
	if err != nil {
		if errors.Is(err, ErrInsufficientData) {
			metrics.RecommendationRequests.WithLabelValues("insufficient_data").Inc()
			logger.Info().Err(err).Msg("观影数据不足，无法生成推荐")
		} else {
			metrics.RecommendationRequests.WithLabelValues("error").Inc()
			logger.Error().Err(err).Msg("生成推荐失败")
		}
		return nil, err
	}

	metrics.RecommendationRequests.WithLabelValues("fresh").Inc()
	metrics.RecommendationDuration.Observe(s.now().Sub(start).Seconds())
	s.cache.Set(userID, Entry{Items: pool, StoredAt: result.GeneratedAt})

	logger.Info().
		Int("items", len(result.Items)).
		Strs("degraded", result.Degraded).
		Dur("took", s.now().Sub(start)).
		Msg("生成推荐完成")
	return result, nil
}

// cached 缓存的是打分后的候选池，按当次 limit 重新做多样化；TTL 在读取时判断
func (s *Service) cached(userID, limit int) (*Result, bool) {
	entry, ok := s.cache.Get(userID)
	if !ok || !s.fresh(entry) {
		return nil, false
	}
	items := Dedupe(Diversify(Dedupe(entry.Items), limit))
	return &Result{Items: items, CacheHit: true, GeneratedAt: entry.StoredAt}, true
}

func (s *Service) fresh(entry Entry) bool {
	return s.opts.CacheTTL <= 0 || s.now().Sub(entry.StoredAt) < s.opts.CacheTTL
}

// compute 返回本次结果以及供缓存的打分候选池
func (s *Service) compute(ctx context.Context, userID, limit int) (*Result, []Candidate, error) {
	profile, err := s.profiles.Build(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	excludedIDs, err := s.history.ExcludedMovieIDs(ctx, userID)
	if err != nil {
		return nil, nil, unknown("excluded movies", err)
	}
	excluded := excludeSet(excludedIDs)

	results := s.runGenerators(ctx, profile, excluded)

	var all []Candidate
	var degraded []string
	for _, r := range results {
		if r.Degraded {
			degraded = append(degraded, r.Name)
		}
		all = append(all, r.Candidates...)
	}

	now := s.now()
	scored := Score(Dedupe(all), profile.GenreCounts, now)
	items := Dedupe(Diversify(scored, limit))

	return &Result{Items: items, Degraded: degraded, GeneratedAt: now}, scored, nil
}

// runGenerators 并发运行所有生成器，单个失败只会让它自己降级为空结果
func (s *Service) runGenerators(ctx context.Context, profile *Profile, excluded map[string]struct{}) []GeneratorResult {
	results := make([]GeneratorResult, len(s.generators))
	var wg sync.WaitGroup

	for i, gen := range s.generators {
		wg.Add(1)
		go func(idx int, g Generator) {
			defer wg.Done()
			results[idx] = s.runGenerator(ctx, profile, excluded, g)
		}(i, gen)
	}

	wg.Wait()
	return results
}

func (s *Service) runGenerator(ctx context.Context, profile *Profile, excluded map[string]struct{}, g Generator) (result GeneratorResult) {
	result.Name = g.Name()
	defer func() {
		if r := recover(); r != nil {
			result = GeneratorResult{Name: g.Name(), Degraded: true, Err: errors.New("generator panicked")}
			s.logger.Error().Interface("panic", r).Str("generator", g.Name()).Msg("候选生成器异常")
		}
		if result.Degraded {
			metrics.GeneratorDegraded.WithLabelValues(result.Name).Inc()
		}
		metrics.GeneratorCandidates.WithLabelValues(result.Name).Observe(float64(len(result.Candidates)))
	}()

	candidates, err := g.Generate(ctx, profile, excluded, s.opts.GeneratorLimit)
	if err != nil {
		s.logger.Warn().Err(err).Str("generator", g.Name()).Int("user_id", profile.UserID).Msg("候选生成器失败，按空结果处理")
		result.Degraded = true
		result.Err = err
		return result
	}
	result.Candidates = candidates
	return result
}

// InvalidateCache 清除用户的推荐缓存，返回之前是否存在未过期的条目
func (s *Service) InvalidateCache(userID int) bool {
	entry, found := s.cache.Get(userID)
	valid := found && s.fresh(entry)
	ok := s.cache.Invalidate(userID) && valid
	if ok {
		s.logger.Debug().Int("user_id", userID).Msg("已清除推荐缓存")
	}
	return ok
}
