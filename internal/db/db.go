package db

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/swipe-api/internal/config"
)

// Models lists every table AutoMigrate keeps in sync.
var Models = []any{&User{}, &Swipe{}, &Match{}, &Message{}}

// NewDB opens the database selected by cfg.DB.Driver and migrates the schema.
//
// TranslateError is always on: uniqueness violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	logMode := logger.Warn
	if cfg.DB.LogSQL {
		logMode = logger.Info // log SQL queries
	}

	db, err := Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logMode)})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open wraps gorm.Open forcing the options the repositories rely on.
func Open(dialector gorm.Dialector, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{}
	}
	gcfg.TranslateError = true
	if gcfg.NowFunc == nil {
		gcfg.NowFunc = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
	}
	return gorm.Open(dialector, gcfg)
}

// Migrate ensures the schema is in sync with models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql", "":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}
