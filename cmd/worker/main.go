package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joshu-sajeev/recolour/internal/app"
	"github.com/joshu-sajeev/recolour/internal/config"
)

// The standalone worker owns dispatch when the api runs with RUN_WORKER=false.
// Concurrency caps are enforced per process, so run a single worker.
func main() {
	log.Println("Starting Worker...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAppConfig(ctx)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := app.OpenDatabase(ctx, nil)
	if err != nil {
		log.Fatal("Database setup failed:", err)
	}

	scheduler := app.NewScheduler(db, cfg)
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler:", err)
	}

	<-ctx.Done()
	log.Println("Shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := scheduler.Stop(shutdownCtx); err != nil {
		log.Printf("Scheduler shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Worker stopped")
}
