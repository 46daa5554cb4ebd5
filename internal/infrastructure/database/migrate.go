package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pinshare/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.User{},
		&entities.FileRecord{},
		&entities.FileAccess{},
	); err != nil {
		return err
	}
	log.Info().Msg("applied database migrations")
	return nil
}
