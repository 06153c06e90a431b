package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joshu-sajeev/recolour/internal/app"
	"github.com/joshu-sajeev/recolour/internal/cli"
	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/photoset"
	"github.com/joshu-sajeev/recolour/internal/storage/postgres"
	"github.com/joshu-sajeev/recolour/internal/ticket"
)

func open(ctx context.Context) (*cli.Store, error) {
	cfg, err := config.LoadAppConfig(ctx)
	if err != nil {
		return nil, err
	}

	db, err := app.OpenDatabase(ctx, nil)
	if err != nil {
		return nil, err
	}

	partners := postgres.NewPartnerRepository(db)
	tickets := postgres.NewTicketRepository(db)
	jobs := postgres.NewJobRepository(db)

	return &cli.Store{
		Partners: partners,
		Tickets:  tickets,
		Jobs:     jobs,
		Service:  ticket.NewTicketService(tickets, jobs, partners, photoset.NewCatalog(cfg.AssetsDir)),
	}, nil
}

func main() {
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(open).ExecuteContext(ctx); err != nil {
		log.Printf("Error: %v", err)
		stop()
		os.Exit(1)
	}
}
