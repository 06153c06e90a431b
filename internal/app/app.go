// Package app holds the startup sequence shared by the binaries.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/pool"
	"github.com/joshu-sajeev/recolour/internal/storage/postgres"
	"github.com/joshu-sajeev/recolour/internal/worker"
	"gorm.io/gorm"
)

// OpenDatabase connects using dbCfg (nil loads it from the environment),
// applies migrations and seeds the partner catalog.
func OpenDatabase(ctx context.Context, dbCfg *postgres.Config) (*gorm.DB, error) {
	db, err := postgres.ConnectDB(ctx, dbCfg)
	if err != nil {
		return nil, err
	}

	if err := postgres.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := postgres.NewPartnerRepository(db).SeedDefaults(ctx); err != nil {
		return nil, fmt.Errorf("seed partners: %w", err)
	}

	log.Println("[DB] Schema ready")
	return db, nil
}

// NewScheduler builds the dispatch scheduler backed by the simulated
// partner described by cfg.
func NewScheduler(db *gorm.DB, cfg *config.AppConfig) *pool.Scheduler {
	jobs := postgres.NewJobRepository(db)
	tickets := postgres.NewTicketRepository(db)
	partners := postgres.NewPartnerRepository(db)

	partner := worker.NewSimulatedPartner(cfg.WorkDuration, cfg.EffectiveFailureRate())
	exec := worker.NewExecutor(jobs, tickets, partner)

	return pool.NewScheduler(partners, jobs, exec, pool.Options{
		PollInterval:    cfg.PollInterval,
		StaleAfter:      cfg.StaleAfter,
		JanitorInterval: cfg.JanitorInterval,
	})
}
