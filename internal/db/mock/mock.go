package mock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"coffeeshop/internal/db"
	applog "coffeeshop/internal/log"
)

// New returns an in-memory sqlite database seeded with the sample drinks.
func New(ctx context.Context) (*gorm.DB, error) {
	database, err := NewEmpty(ctx)
	if err != nil {
		return nil, err
	}

	if err := db.Seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

// NewEmpty returns a migrated in-memory sqlite database with no rows. Every
// call gets its own database, so tests do not observe each other's writes.
func NewEmpty(ctx context.Context) (*gorm.DB, error) {
	name := "coffeeshop-" + uuid.NewString()
	applog.Debug(ctx, "initialising mock database", "name", name)

	database, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), db.GormConfig(logger.Silent))
	if err != nil {
		return nil, err
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	// The in-memory database lives as long as one connection stays open.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.AutoMigrate(database.WithContext(ctx)); err != nil {
		return nil, err
	}

	return database, nil
}
