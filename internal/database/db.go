package database

import (
	"context"
	"fmt"
	"time"

	"stocktrack-backend/internal/config"
	"stocktrack-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and migrates the schema. Unlike a hard startup
// dependency, a failure here is returned to the caller so the app can keep
// running on the in-memory fallback store.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.StockMovement{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Health owns the database connectivity signal the store selector polls.
type Health struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewHealth(db *gorm.DB) *Health {
	return &Health{db: db, timeout: time.Second}
}

// Reachable pings the database with a short timeout. It is called on every
// storage operation, so it must never block for long.
func (h *Health) Reachable() bool {
	if h == nil || h.db == nil {
		return false
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	return sqlDB.PingContext(ctx) == nil
}
