package partner

import (
	"context"
	"net/http"

	"github.com/joshu-sajeev/recolour/common"
	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/dto"
)

type PartnerService struct {
	partners PartnerRepoInterface
	tickets  TicketCounter
	jobs     RunningCounter
}

func NewPartnerService(partners PartnerRepoInterface, tickets TicketCounter, jobs RunningCounter) *PartnerService {
	return &PartnerService{partners: partners, tickets: tickets, jobs: jobs}
}

var _ PartnerServiceInterface = (*PartnerService)(nil)

func (s *PartnerService) ListPartners(ctx context.Context) ([]dto.PartnerResponseDTO, error) {
	partners, err := s.partners.List(ctx)
	if err != nil {
		return nil, internalErr(err, "failed to list partners")
	}

	resp := make([]dto.PartnerResponseDTO, len(partners))
	for i, p := range partners {
		resp[i] = dto.PartnerResponseDTO{ID: p.ID, Name: p.Name, Concurrency: p.Concurrency}
	}
	return resp, nil
}

// Overview reports, per partner, how many tickets sit in each status and
// how many jobs are running right now. Every status is present in Counts,
// zero or not.
func (s *PartnerService) Overview(ctx context.Context) ([]dto.PartnerOverviewDTO, error) {
	partners, err := s.partners.List(ctx)
	if err != nil {
		return nil, internalErr(err, "failed to list partners")
	}

	counts, err := s.tickets.CountByPartnerStatus(ctx)
	if err != nil {
		return nil, internalErr(err, "failed to count tickets")
	}

	rows := make([]dto.PartnerOverviewDTO, len(partners))
	index := make(map[string]*dto.PartnerOverviewDTO, len(partners))
	for i, p := range partners {
		rows[i] = dto.PartnerOverviewDTO{
			PartnerID:   p.ID,
			PartnerName: p.Name,
			Concurrency: p.Concurrency,
			Counts:      make(map[config.TicketStatus]int, len(config.AllowedTicketStatuses)),
		}
		for _, st := range config.AllowedTicketStatuses {
			rows[i].Counts[st] = 0
		}

		running, err := s.jobs.CountRunning(ctx, p.ID)
		if err != nil {
			return nil, internalErr(err, "failed to count running jobs")
		}
		rows[i].Running = running
		index[p.ID] = &rows[i]
	}

	for _, c := range counts {
		row, ok := index[c.PartnerID]
		if !ok {
			continue
		}
		row.Counts[c.Status] += c.Count
		row.Total += c.Count
	}

	return rows, nil
}

func internalErr(err error, msg string) error {
	if apiErr, ok := common.FromContext(err); ok {
		return apiErr
	}
	return common.Errf(http.StatusInternalServerError, "%s", msg)
}
