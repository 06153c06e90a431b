package postgres

import (
	"context"
	"embed"
	"fmt"
	"log"

	"github.com/joshu-sajeev/recolour/internal/models"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to date. Postgres runs the embedded goose
// migrations; sqlite, used for development and tests, is auto-migrated
// from the models.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if db.Dialector.Name() != DriverPostgres {
		return MigrateModels(db.WithContext(ctx), AllModels()...)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	log.Println("Database migration completed successfully")
	return nil
}

// AllModels lists every persisted model in dependency order.
func AllModels() []any {
	return []any{
		&models.Partner{},
		&models.Ticket{},
		&models.TicketPhoto{},
		&models.TicketHistory{},
		&models.Job{},
	}
}

// Automigrate the provided models
func MigrateModels(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	log.Println("Database migration completed successfully")
	return nil
}
