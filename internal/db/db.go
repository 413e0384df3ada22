package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"coffeeshop/internal/config"
	applog "coffeeshop/internal/log"
	"coffeeshop/models"
)

// GormConfig returns the gorm settings shared by every database handle.
// TranslateError is required so unique violations surface as
// gorm.ErrDuplicatedKey on both postgres and sqlite.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(level),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

// Dialector picks the gorm driver matching the URL scheme: postgres for
// postgres:// and postgresql:// URLs (or key=value DSNs), sqlite for
// sqlite://, file: and *.db paths.
func Dialector(url string) (gorm.Dialector, error) {
	trimmed := strings.TrimSpace(url)
	lower := strings.ToLower(trimmed)

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"), strings.Contains(lower, "host="):
		return postgres.Open(trimmed), nil
	case strings.HasPrefix(lower, "sqlite://"):
		return sqlite.Open(trimmed[len("sqlite://"):]), nil
	case strings.HasPrefix(lower, "file:"), strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"):
		return sqlite.Open(trimmed), nil
	}
	return nil, fmt.Errorf("unsupported database URL scheme: %q", trimmed)
}

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("database URL must not be empty")
	}

	dialector, err := Dialector(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, GormConfig(logger.Warn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database handle is nil")
	}

	return db.AutoMigrate(&models.Drink{})
}

// Reset drops the drinks table, recreates it and seeds the sample drink.
// Every stored drink is lost.
func Reset(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database handle is nil")
	}

	applog.Info(ctx, "resetting drinks table")
	if err := db.WithContext(ctx).Migrator().DropTable(&models.Drink{}); err != nil {
		return fmt.Errorf("drop drinks: %w", err)
	}
	if err := AutoMigrate(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("migrate drinks: %w", err)
	}
	return Seed(ctx, db)
}

// SampleDrinks are the drinks written by Seed.
func SampleDrinks() []models.Drink {
	return []models.Drink{
		{
			Title:  "water",
			Recipe: models.Recipe{{Name: "water", Color: "blue", Parts: 1}},
		},
	}
}

// Seed inserts SampleDrinks.
func Seed(ctx context.Context, db *gorm.DB) error {
	for _, drink := range SampleDrinks() {
		drink := drink
		if err := db.WithContext(ctx).Create(&drink).Error; err != nil {
			return fmt.Errorf("seed drink %q: %w", drink.Title, err)
		}
	}
	applog.Debug(ctx, "drinks seeded")
	return nil
}

// Configure opens the database, migrates it and optionally resets it.
func Configure(cfg config.DatabaseConfig) (*gorm.DB, error) {
	database, err := Initialize(cfg)
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(database); err != nil {
		return nil, err
	}

	if cfg.Reset {
		if err := Reset(context.Background(), database); err != nil {
			return nil, err
		}
	}

	return database, nil
}
