package repository

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/user/reelmate/internal/model"
)

// InitDB 初始化数据库连接并同步表结构
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(&model.WatchedMovie{}, &model.WatchlistItem{}, &model.Review{}); err != nil {
		return nil, fmt.Errorf("数据表迁移失败: %w", err)
	}

	return db, nil
}

// Repositories 仓库集合
type Repositories struct {
	DB        *gorm.DB
	History   *HistoryRepository
	Watchlist *WatchlistRepository
	Review    *ReviewRepository
	Store     *HistoryStore
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	history := NewHistoryRepository(db)
	watchlist := NewWatchlistRepository(db)
	review := NewReviewRepository(db)
	return &Repositories{
		DB:        db,
		History:   history,
		Watchlist: watchlist,
		Review:    review,
		Store:     NewHistoryStore(db, history, watchlist, review),
	}
}
