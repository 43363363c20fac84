package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env         string `validate:"oneof=development production test"`
	AppSecret   string `validate:"required"`
	DatabaseURL string `validate:"required"`
	Port        string `validate:"required,numeric"`

	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogFormat string `validate:"oneof=json console"`

	TMDB      TMDBConfig
	Recommend RecommendConfig
}

// TMDBConfig 影片目录（TMDB）客户端配置
type TMDBConfig struct {
	Token           string        `validate:"required"`
	BaseURL         string        `validate:"required,url"`
	Language        string        `validate:"required"`
	Timeout         time.Duration `validate:"gt=0"`
	RequestsPerSec  float64       `validate:"gt=0"`
	Burst           int           `validate:"gte=1"`
	DetailCacheSize int           `validate:"gte=1"`
	DetailCacheTTL  time.Duration `validate:"gt=0"`
}

// RecommendConfig 个性化推荐配置
type RecommendConfig struct {
	CacheTTL           time.Duration `validate:"gt=0"`
	CacheBackend       string        `validate:"oneof=memory lru"`
	CacheSize          int           `validate:"gte=1"`
	DefaultLimit       int           `validate:"gte=1,lte=50"`
	GeneratorLimit     int           `validate:"gte=1"`
	FavoriteCreditsCap int           `validate:"gte=1"`
	PersonSort         string        `validate:"oneof=popularity release_date"`
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "reelmate")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", defaultSecret))
	env := getEnv("APP_ENV", "development")

	if env == "production" && appSecret == defaultSecret {
		log.Warn().Msg("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:         env,
		AppSecret:   appSecret,
		DatabaseURL: dbURL,
		Port:        getEnv("PORT", "5005"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", defaultLogFormat(env)),
		TMDB: TMDBConfig{
			Token:           getEnv("TMDB_TOKEN", ""),
			BaseURL:         getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			Language:        getEnv("TMDB_LANGUAGE", "zh-CN"),
			Timeout:         getEnvDuration("TMDB_TIMEOUT", 5*time.Second),
			RequestsPerSec:  getEnvFloat("TMDB_RPS", 40),
			Burst:           getEnvInt("TMDB_BURST", 10),
			DetailCacheSize: getEnvInt("TMDB_DETAIL_CACHE_SIZE", 2000),
			DetailCacheTTL:  getEnvDuration("TMDB_DETAIL_CACHE_TTL", 6*time.Hour),
		},
		Recommend: RecommendConfig{
			CacheTTL:           getEnvDuration("RECO_CACHE_TTL", time.Hour),
			CacheBackend:       getEnv("RECO_CACHE_BACKEND", "memory"),
			CacheSize:          getEnvInt("RECO_CACHE_SIZE", 10000),
			DefaultLimit:       getEnvInt("RECO_DEFAULT_LIMIT", 15),
			GeneratorLimit:     getEnvInt("RECO_GENERATOR_LIMIT", 15),
			FavoriteCreditsCap: getEnvInt("RECO_FAVORITE_CREDITS_CAP", 5),
			PersonSort:         getEnv("RECO_PERSON_SORT", "popularity"),
		},
	}
}

// Validate 校验配置是否合法
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}
	return nil
}

func defaultLogFormat(env string) string {
	if env == "production" {
		return "json"
	}
	return "console"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

// getEnvDuration 支持 "30s"、"1h" 这类写法
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
