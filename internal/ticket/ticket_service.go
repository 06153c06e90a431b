package ticket

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/joshu-sajeev/recolour/common"
	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/dto"
	"github.com/joshu-sajeev/recolour/internal/job"
	"github.com/joshu-sajeev/recolour/internal/models"
	"github.com/joshu-sajeev/recolour/internal/partner"
	"github.com/joshu-sajeev/recolour/internal/photoset"
)

const (
	ActionEnqueued = "Enqueued to partner"
	ActionApproved = "Ticket approved"
	ActionRejected = "Ticket rejected"
)

type TicketService struct {
	tickets  TicketRepoInterface
	jobs     job.JobRepoInterface
	partners partner.PartnerRepoInterface
	catalog  photoset.CatalogInterface
}

func NewTicketService(
	tickets TicketRepoInterface,
	jobs job.JobRepoInterface,
	partners partner.PartnerRepoInterface,
	catalog photoset.CatalogInterface,
) *TicketService {
	return &TicketService{tickets: tickets, jobs: jobs, partners: partners, catalog: catalog}
}

var _ TicketServiceInterface = (*TicketService)(nil)

// CreateTicket opens a pending ticket for a photo set, copying the set's
// product photos and reference image onto the ticket.
func (s *TicketService) CreateTicket(ctx context.Context, req *dto.TicketCreateDTO) (*dto.TicketResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapErr(err, "")
	}

	if !slices.Contains(config.AllowedPriorities, req.Priority) {
		return nil, common.NewAPIError(
			http.StatusBadRequest,
			"invalid priority",
			map[string]any{
				"provided": req.Priority,
				"allowed":  config.AllowedPriorities,
			},
		)
	}

	if _, err := s.partners.GetByID(ctx, req.PartnerID); err != nil {
		if errors.Is(err, partner.ErrPartnerNotFound) {
			return nil, common.Errf(http.StatusBadRequest, "Invalid partnerId")
		}
		return nil, mapErr(err, "failed to load partner")
	}

	set, err := s.catalog.Get(ctx, req.PhotoSetID)
	if err != nil {
		if errors.Is(err, photoset.ErrPhotosetNotFound) {
			return nil, common.Errf(http.StatusBadRequest, "Invalid photoSetId")
		}
		return nil, mapErr(err, "failed to read photosets")
	}

	created, err := s.tickets.Create(ctx, &models.Ticket{
		PhotoSetID:         set.ID,
		Priority:           req.Priority,
		PartnerID:          req.PartnerID,
		Status:             config.TicketStatusPending,
		ReferenceImagePath: set.ReferenceImage,
	}, set.ProductPhotos)
	if err != nil {
		return nil, mapErr(err, "failed to create ticket")
	}

	return dto.NewTicketResponse(created), nil
}

func (s *TicketService) ListTickets(ctx context.Context, query dto.TicketListQuery) ([]dto.TicketResponseDTO, error) {
	tickets, err := s.tickets.List(ctx, ListFilter{
		Status:    config.TicketStatus(query.Status),
		PartnerID: query.PartnerID,
		Priority:  config.Priority(query.Priority),
	})
	if err != nil {
		return nil, mapErr(err, "failed to list tickets")
	}

	resp := make([]dto.TicketResponseDTO, len(tickets))
	for i := range tickets {
		resp[i] = *dto.NewTicketResponse(&tickets[i])
	}
	return resp, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id string) (*dto.TicketResponseDTO, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "failed to get ticket")
	}
	return dto.NewTicketResponse(t), nil
}

// Send queues a pending or rejected ticket with its partner.
func (s *TicketService) Send(ctx context.Context, id string) (*dto.TicketSendResponseDTO, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "failed to get ticket")
	}

	if !slices.Contains(config.SendableStatuses, t.Status) {
		return nil, common.Conflict("Cannot send ticket in status %s", t.Status)
	}

	existing, err := s.currentJob(ctx, id)
	if err != nil {
		return nil, err
	}

	j, err := s.dispatch(ctx, t, existing)
	if err != nil {
		return nil, err
	}

	return &dto.TicketSendResponseDTO{OK: true, Job: dto.NewJobResponse(j)}, nil
}

// Act applies an operator or manager action. Role is checked before the
// ticket is read, so a forbidden caller learns nothing about it.
func (s *TicketService) Act(ctx context.Context, id string, action config.Action, role config.Role) (*dto.TicketSendResponseDTO, error) {
	switch action {
	case config.ActionApprove, config.ActionReject:
		if role != config.RoleManager {
			return nil, common.Forbidden(string(config.RoleManager), string(role))
		}
		return s.decide(ctx, id, action)

	case config.ActionSendToPartner:
		if role != config.RoleOperator {
			return nil, common.Forbidden(string(config.RoleOperator), string(role))
		}
		return s.sendToPartner(ctx, id)

	default:
		return nil, common.NewAPIError(
			http.StatusBadRequest,
			"Unknown action",
			map[string]any{
				"provided": action,
				"allowed":  []config.Action{config.ActionApprove, config.ActionReject, config.ActionSendToPartner},
			},
		)
	}
}

func (s *TicketService) decide(ctx context.Context, id string, action config.Action) (*dto.TicketSendResponseDTO, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "failed to get ticket")
	}

	if t.Status != config.TicketStatusAwaitingApproval {
		return nil, common.NewAPIError(
			http.StatusConflict,
			"Ticket not awaiting approval",
			map[string]any{"status": t.Status},
		)
	}

	status, desc := config.TicketStatusApproved, ActionApproved
	if action == config.ActionReject {
		status, desc = config.TicketStatusRejected, ActionRejected
	}

	applied, err := s.tickets.UpdateStatusFrom(ctx, id, []config.TicketStatus{config.TicketStatusAwaitingApproval}, status, desc)
	if err != nil {
		return nil, mapErr(err, "failed to update ticket")
	}
	if !applied {
		return nil, common.Conflict("Ticket not awaiting approval")
	}

	return &dto.TicketSendResponseDTO{OK: true}, nil
}

// sendToPartner is safe to repeat: while the ticket's job is queued or
// running it is returned untouched.
func (s *TicketService) sendToPartner(ctx context.Context, id string) (*dto.TicketSendResponseDTO, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "failed to get ticket")
	}

	existing, err := s.currentJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil && isActive(existing) {
		return &dto.TicketSendResponseDTO{OK: true, Job: dto.NewJobResponse(existing)}, nil
	}

	if !slices.Contains(config.SendableStatuses, t.Status) {
		return nil, common.Conflict("Cannot send ticket in status %s", t.Status)
	}

	j, err := s.dispatch(ctx, t, existing)
	if err != nil {
		return nil, err
	}

	return &dto.TicketSendResponseDTO{OK: true, Job: dto.NewJobResponse(j)}, nil
}

// dispatch makes sure the ticket has a queued or running job: it enqueues
// the first one, reopens a finished one, and leaves an active one alone.
// The ticket moves to queued unless its job was already active.
func (s *TicketService) dispatch(ctx context.Context, t *models.Ticket, existing *models.Job) (*models.Job, error) {
	var (
		j   *models.Job
		err error
	)
	switch {
	case existing == nil:
		j, err = s.jobs.Enqueue(ctx, t.ID, t.PartnerID, config.DefaultMaxAttempts)
	case isActive(existing):
		return existing, nil
	default:
		j, err = s.jobs.ResetToQueued(ctx, t.ID)
	}
	if err != nil {
		return nil, mapErr(err, "failed to enqueue job")
	}

	// A concurrent send may already have moved the ticket on; the job is
	// the same either way.
	if _, err := s.tickets.UpdateStatusFrom(ctx, t.ID, config.SendableStatuses, config.TicketStatusQueued, ActionEnqueued); err != nil {
		return nil, mapErr(err, "failed to update ticket")
	}

	return j, nil
}

// currentJob returns the ticket's job, or nil when it has none yet.
func (s *TicketService) currentJob(ctx context.Context, ticketID string) (*models.Job, error) {
	j, err := s.jobs.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			return nil, nil
		}
		return nil, mapErr(err, "failed to get job")
	}
	return j, nil
}

func isActive(j *models.Job) bool {
	return j.Status == config.JobStatusQueued || j.Status == config.JobStatusRunning
}

// mapErr turns store errors into API errors. fallback is the message for
// anything unexpected.
func mapErr(err error, fallback string) error {
	if apiErr, ok := common.FromContext(err); ok {
		return apiErr
	}
	switch {
	case errors.Is(err, ErrTicketNotFound):
		return common.Errf(http.StatusNotFound, "Ticket not found")
	case errors.Is(err, job.ErrJobNotFound):
		return common.Errf(http.StatusNotFound, "Job not found")
	}
	return common.Errf(http.StatusInternalServerError, "%s", fallback)
}
