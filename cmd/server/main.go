package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/user/reelmate/internal/config"
	"github.com/user/reelmate/internal/handler"
	"github.com/user/reelmate/internal/middleware"
	"github.com/user/reelmate/internal/recommend"
	"github.com/user/reelmate/internal/repository"
	"github.com/user/reelmate/internal/router"
	"github.com/user/reelmate/internal/service"
	"github.com/user/reelmate/internal/utils"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Info().Msg("未找到 .env 文件，使用系统环境变量")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("配置无效")
	}

	// 初始化数据库
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("数据库连接失败")
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// 初始化仓库
	repos := repository.NewRepositories(db)

	// 影片目录与推荐服务
	tmdb := service.NewTMDBService(cfg.TMDB)
	recommender := recommend.NewService(repos.Store, tmdb, newRecommendCache(cfg.Recommend), recommendOptions(cfg.Recommend))

	// 初始化 Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 中间件
	r.Use(middleware.Logger())

	// 初始化 Handler
	h := handler.NewHandler(cfg, recommender, repos.Store)

	// 注册路由
	router.RegisterRoutes(r, h)

	// 配置 HTTP 服务器
	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Info().Str("addr", srv.Addr).Msgf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("服务器强制关闭")
		return
	}

	log.Info().Msg("服务器已退出")
}

// recommendOptions 用配置覆盖推荐流程的默认参数
func recommendOptions(cfg config.RecommendConfig) recommend.Options {
	opts := recommend.DefaultOptions()
	opts.DefaultLimit = cfg.DefaultLimit
	opts.GeneratorLimit = cfg.GeneratorLimit
	opts.FavoriteCreditsCap = cfg.FavoriteCreditsCap
	opts.PersonSort = cfg.PersonSort
	opts.CacheTTL = cfg.CacheTTL
	return opts
}

func newRecommendCache(cfg config.RecommendConfig) recommend.Cache {
	if cfg.CacheBackend == "lru" {
		return recommend.NewLRUCache(cfg.CacheSize)
	}
	return recommend.NewMemoryCache(cfg.CacheTTL)
}
