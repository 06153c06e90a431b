package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/job"
	"github.com/joshu-sajeev/recolour/internal/ticket"
	"github.com/spf13/cobra"
)

func MigrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and seed the partner catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := open(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema up to date")
			return nil
		},
	}
}

func PartnersCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "partners",
		Short: "List partners and their concurrency limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}

			partners, err := store.Partners.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list partners: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCONCURRENCY")
			for _, p := range partners {
				fmt.Fprintf(w, "%s\t%s\t%d\n", p.ID, p.Name, p.Concurrency)
			}
			return w.Flush()
		},
	}
}

func TicketsCmd(open Opener) *cobra.Command {
	var status, partnerID, priority string

	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "List tickets, highest priority first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ticket.ListFilter{
				Status:    config.TicketStatus(status),
				PartnerID: partnerID,
				Priority:  config.Priority(priority),
			}
			if err := oneOf("status", filter.Status, config.AllowedTicketStatuses); err != nil {
				return err
			}
			if err := oneOf("priority", filter.Priority, config.AllowedPriorities); err != nil {
				return err
			}

			store, err := open(cmd.Context())
			if err != nil {
				return err
			}

			tickets, err := store.Tickets.List(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("failed to list tickets: %w", err)
			}

			if len(tickets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tickets found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPHOTOSET\tPRIORITY\tPARTNER\tSTATUS\tUPDATED")
			for _, t := range tickets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.PhotoSetID, t.Priority, t.PartnerID, t.Status, t.UpdatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by ticket status")
	cmd.Flags().StringVar(&partnerID, "partner", "", "Filter by partner id")
	cmd.Flags().StringVar(&priority, "priority", "", "Filter by priority (low, medium, high)")
	return cmd
}

func JobsCmd(open Opener) *cobra.Command {
	var ticketID, partnerID, status string

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List partner jobs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := job.ListFilter{
				TicketID:  ticketID,
				PartnerID: partnerID,
				Status:    config.JobStatus(status),
			}
			if err := oneOf("status", filter.Status, config.AllowedJobStatuses); err != nil {
				return err
			}

			store, err := open(cmd.Context())
			if err != nil {
				return err
			}

			jobs, err := store.Jobs.List(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("failed to list jobs: %w", err)
			}

			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTICKET\tPARTNER\tSTATUS\tATTEMPTS\tRUN AFTER\tLAST ERROR")
			for _, j := range jobs {
				lastErr := "-"
				if j.LastError != nil {
					lastErr = *j.LastError
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\t%s\n",
					j.ID, j.TicketID, j.PartnerID, j.Status, j.Attempts, j.MaxAttempts,
					j.RunAfter.Format(time.RFC3339), lastErr)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&ticketID, "ticket", "", "Filter by ticket id")
	cmd.Flags().StringVar(&partnerID, "partner", "", "Filter by partner id")
	cmd.Flags().StringVar(&status, "status", "", "Filter by job status")
	return cmd
}

// ResetCmd resends a ticket whose job is finished or failed, granting the
// job a fresh attempt budget. The ticket lifecycle applies: only pending or
// rejected tickets can be resent.
func ResetCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "reset [ticket-id]",
		Short: "Resend a rejected ticket whose job is finished or failed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ticketID := args[0]

			store, err := open(ctx)
			if err != nil {
				return err
			}

			current, err := store.Jobs.GetByTicketID(ctx, ticketID)
			if err != nil {
				if errors.Is(err, job.ErrJobNotFound) {
					return fmt.Errorf("ticket %s has no job; send it first", ticketID)
				}
				return fmt.Errorf("failed to load job: %w", err)
			}
			if current.Status == config.JobStatusQueued || current.Status == config.JobStatusRunning {
				return fmt.Errorf("job %s is %s; nothing to reset", current.ID, current.Status)
			}

			res, err := store.Service.Send(ctx, ticketID)
			if err != nil {
				return fmt.Errorf("reset ticket %s: %w", ticketID, err)
			}
			if res.Job == nil {
				return fmt.Errorf("reset ticket %s: no job returned", ticketID)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Job %s %s (attempt budget %d)\n", res.Job.ID, res.Job.Status, res.Job.MaxAttempts)
			return nil
		},
	}
}
