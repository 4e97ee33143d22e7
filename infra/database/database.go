package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/logging"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// same id across every instance so only one migrates at a time
const migrateLockID int64 = 20260222

// Open connects with the configured driver. sqlite is limited to one
// connection so transactions never see "database is locked".
func Open(driver, dsn string, log *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.NewGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates the schema and seeds the role table. On postgres the work
// is guarded by an advisory lock held on a single connection.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return migrate(ctx, db)
	}

	return db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := conn.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
			return fmt.Errorf("migration lock: %w", err)
		}
		defer conn.Exec("SELECT pg_advisory_unlock(?)", migrateLockID)
		return migrate(ctx, conn)
	})
}

func migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("migration: %w", err)
	}
	if err := repository.NewRoleRepository(db).Seed(ctx, domain.RoleCodes); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}
