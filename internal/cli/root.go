// Package cli implements recolourctl, the operator console for the
// ticket and job stores.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/joshu-sajeev/recolour/internal/job"
	"github.com/joshu-sajeev/recolour/internal/partner"
	"github.com/joshu-sajeev/recolour/internal/ticket"
	"github.com/spf13/cobra"
)

// Store bundles the repositories the commands read and the ticket service
// that owns every ticket transition they trigger.
type Store struct {
	Partners partner.PartnerRepoInterface
	Tickets  ticket.TicketRepoInterface
	Jobs     job.JobRepoInterface
	Service  ticket.TicketServiceInterface
}

// Opener connects to the database. It is called once per command so that
// --help never needs a database.
type Opener func(ctx context.Context) (*Store, error)

func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "recolourctl",
		Short:         "Inspect and repair recolour tickets and partner jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(MigrateCmd(open))
	root.AddCommand(PartnersCmd(open))
	root.AddCommand(TicketsCmd(open))
	root.AddCommand(JobsCmd(open))
	root.AddCommand(ResetCmd(open))
	return root
}

func oneOf[T ~string](flag string, value T, allowed []T) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("invalid --%s %q (allowed: %v)", flag, value, allowed)
}
