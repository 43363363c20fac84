package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationRequests 个性化推荐请求数，按结果分类
	// outcome: fresh, cache_hit, insufficient_data, error
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of personalized recommendation requests",
		},
		[]string{"outcome"},
	)

	// RecommendationDuration 推荐计算耗时（不含缓存命中）
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of uncached recommendation computations",
			Buckets: prometheus.DefBuckets,
		},
	)

	// GeneratorDegraded 候选生成器因目录失败降级为空结果的次数
	GeneratorDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_generator_degraded_total",
			Help: "Total number of candidate generator runs that failed and returned no candidates",
		},
		[]string{"generator"},
	)

	// GeneratorCandidates 各生成器产出的候选数量
	GeneratorCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_generator_candidates",
			Help:    "Number of candidates produced per generator run",
			Buckets: []float64{0, 1, 3, 5, 10, 15, 30},
		},
		[]string{"generator"},
	)

	// CatalogRequests TMDB 请求数
	// status: success, failure, rejected
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of catalog (TMDB) API requests",
		},
		[]string{"endpoint", "status"},
	)

	// CatalogCircuitState 熔断器状态 (0=closed, 1=half-open, 2=open)
	CatalogCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_circuit_breaker_state",
			Help: "Catalog circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// ProfileDegradedMovies 构建画像时详情缺失被跳过的影片数
	ProfileDegradedMovies = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_profile_skipped_movies_total",
			Help: "Total number of watched movies skipped during profile building because catalog details were unavailable",
		},
	)
)
