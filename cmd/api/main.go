package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joshu-sajeev/recolour/internal/app"
	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/pool"
	"github.com/joshu-sajeev/recolour/internal/server"
)

func main() {
	log.Println("Starting API...")

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

	var scheduler *pool.Scheduler
	if cfg.RunWorker {
		scheduler = app.NewScheduler(db, cfg)
		if err := scheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler:", err)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewRouter(db, cfg),
	}

	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			log.Printf("Scheduler shutdown: %v", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Stopped")
}
