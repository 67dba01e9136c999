package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-api/internal/auth"
	"github.com/oggyb/swipe-api/internal/cache"
	"github.com/oggyb/swipe-api/internal/config"
)

// AppContext holds shared dependencies (Config, DB, Redis, tokens, Logger)
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Tokens     *auth.TokenManager
	Logger     *slog.Logger
}

// New creates a new AppContext
func New(
	cfg *config.Config,
	db *gorm.DB,
	rdb *cache.RedisCache,
	tokens *auth.TokenManager,
	logger *slog.Logger,
) *AppContext {
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Tokens:     tokens,
		Logger:     logger,
	}
}
