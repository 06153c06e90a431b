package job

import (
	"context"
	"errors"
	"net/http"

	"github.com/joshu-sajeev/recolour/common"
	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/dto"
)

type JobService struct {
	repo JobRepoInterface
}

func NewJobService(repo JobRepoInterface) *JobService {
	return &JobService{repo: repo}
}

var _ JobServiceInterface = (*JobService)(nil)

// GetJobByID retrieves a job by its ID from the repository.
// It maps repository errors to appropriate API errors
// (e.g., not found, timeout, or internal failure).
func (s *JobService) GetJobByID(ctx context.Context, id string) (*dto.JobResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		apiErr, _ := common.FromContext(err)
		return nil, apiErr
	}

	j, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apiErr, ok := common.FromContext(err); ok {
			return nil, apiErr
		}
		if errors.Is(err, ErrJobNotFound) {
			return nil, common.Errf(http.StatusNotFound, "Job not found")
		}
		return nil, common.Errf(http.StatusInternalServerError, "failed to get job")
	}

	return dto.NewJobResponse(j), nil
}

// ListJobs returns jobs newest first, narrowed by the optional filters.
func (s *JobService) ListJobs(ctx context.Context, query dto.JobListQuery) ([]dto.JobResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		apiErr, _ := common.FromContext(err)
		return nil, apiErr
	}

	jobs, err := s.repo.List(ctx, ListFilter{
		TicketID:  query.TicketID,
		PartnerID: query.PartnerID,
		Status:    config.JobStatus(query.Status),
	})
	if err != nil {
		if apiErr, ok := common.FromContext(err); ok {
			return nil, apiErr
		}
		return nil, common.Errf(http.StatusInternalServerError, "failed to list jobs")
	}

	dtos := make([]dto.JobResponseDTO, len(jobs))
	for i := range jobs {
		dtos[i] = *dto.NewJobResponse(&jobs[i])
	}

	return dtos, nil
}
