package mocks

import (
	"context"
	"time"

	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/job"
	"github.com/joshu-sajeev/recolour/internal/models"
	"github.com/stretchr/testify/mock"
)

type JobRepoMock struct {
	mock.Mock
}

var _ job.JobRepoInterface = (*JobRepoMock)(nil)

func (m *JobRepoMock) Enqueue(ctx context.Context, ticketID, partnerID string, maxAttempts int) (*models.Job, error) {
	args := m.Called(ctx, ticketID, partnerID, maxAttempts)

	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *JobRepoMock) ClaimNextForPartner(ctx context.Context, partnerID string) (*models.Job, error) {
	args := m.Called(ctx, partnerID)

	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *JobRepoMock) SetStatus(ctx context.Context, id string, status config.JobStatus, patch job.Patch) error {
	args := m.Called(ctx, id, status, patch)
	return args.Error(0)
}

func (m *JobRepoMock) GetByID(ctx context.Context, id string) (*models.Job, error) {
	args := m.Called(ctx, id)

	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *JobRepoMock) GetByTicketID(ctx context.Context, ticketID string) (*models.Job, error) {
	args := m.Called(ctx, ticketID)

	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *JobRepoMock) ResetToQueued(ctx context.Context, ticketID string) (*models.Job, error) {
	args := m.Called(ctx, ticketID)

	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *JobRepoMock) List(ctx context.Context, filter job.ListFilter) ([]models.Job, error) {
	args := m.Called(ctx, filter)

	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Error(1)
}

func (m *JobRepoMock) CountRunning(ctx context.Context, partnerID string) (int64, error) {
	args := m.Called(ctx, partnerID)

	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *JobRepoMock) RequeueStale(ctx context.Context, staleAfter time.Duration) (int64, error) {
	args := m.Called(ctx, staleAfter)

	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}
