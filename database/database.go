package database

import (
	"fmt"

	"github.com/redants-101/nano-banana-ai/internal/domain/billing"
	"github.com/redants-101/nano-banana-ai/internal/domain/generations"
	"github.com/redants-101/nano-banana-ai/internal/domain/subscriptions"
	"github.com/redants-101/nano-banana-ai/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres and migrates every domain model.
func Open(dsn string, quiet bool) (*gorm.DB, error) {
	cfg := &gorm.Config{}
	if quiet {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&subscriptions.Subscription{},
		&generations.ImageGeneration{},
		&billing.WebhookEvent{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
