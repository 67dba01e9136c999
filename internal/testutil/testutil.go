// Package testutil wires isolated SQLite + miniredis dependencies for tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/auth"
	"github.com/oggyb/swipe-api/internal/cache"
	"github.com/oggyb/swipe-api/internal/config"
	"github.com/oggyb/swipe-api/internal/db"
)

// NewDB opens a migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := db.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// NewRedis starts a miniredis and returns a cache bound to it.
func NewRedis(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

// Config returns the default config tuned for fast tests.
func Config() *config.Config {
	cfg := config.New()
	cfg.App.ENV = "test"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.BcryptCost = 4 // bcrypt.MinCost
	cfg.RateLimit.RPS = 1000
	cfg.RateLimit.Burst = 1000
	return cfg
}

// NewAppContext wires a fresh DB, Redis and token manager for t.
// Logs are discarded.
func NewAppContext(t *testing.T) (*app.AppContext, *miniredis.Miniredis) {
	t.Helper()

	cfg := Config()
	gdb := NewDB(t)
	rc, mr := NewRedis(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	return app.New(cfg, gdb, rc, tokens, log), mr
}

// UserOpt customises a user created by CreateUser.
type UserOpt func(*db.User)

func WithGender(g string) UserOpt { return func(u *db.User) { u.Gender = g } }

func WithLookingFor(p ...string) UserOpt {
	return func(u *db.User) { u.LookingForGenders = p }
}

func WithAge(age int) UserOpt { return func(u *db.User) { u.Age = age } }

func WithBirthday(b time.Time, visible bool) UserOpt {
	return func(u *db.User) {
		u.Birthday = &b
		u.ShowBirthday = visible
	}
}

func WithLocation(province, city string) UserOpt {
	return func(u *db.User) {
		u.Province = &province
		u.City = &city
	}
}

// CreateUser inserts a user with the given id. Defaults: Female, 25,
// looking for Everyone.
func CreateUser(t *testing.T, gdb *gorm.DB, id string, opts ...UserOpt) *db.User {
	t.Helper()

	u := &db.User{
		ID:                id,
		Email:             id + "@test.com",
		PasswordHash:      "x",
		Name:              strings.ToUpper(id[:1]) + id[1:],
		Age:               25,
		Gender:            db.GenderFemale,
		LookingForGenders: []string{db.PreferenceEveryone},
		Photos:            []string{},
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}
