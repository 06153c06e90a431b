package job_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/joshu-sajeev/recolour/common"
	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/dto"
	"github.com/joshu-sajeev/recolour/internal/job"
	"github.com/joshu-sajeev/recolour/internal/mocks"
	"github.com/joshu-sajeev/recolour/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleJob(id string) models.Job {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return models.Job{
		ID:          id,
		TicketID:    "t_" + id,
		PartnerID:   "p1",
		Status:      config.JobStatusQueued,
		MaxAttempts: 3,
		RunAfter:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestJobService_GetJobByID(t *testing.T) {
	tests := []struct {
		name       string
		setupMock  func(*mocks.JobRepoMock)
		setupCtx   func() (context.Context, context.CancelFunc)
		wantStatus int
	}{
		{
			name: "found",
			setupMock: func(m *mocks.JobRepoMock) {
				j := sampleJob("j_1")
				m.On("GetByID", mock.Anything, "j_1").Return(&j, nil)
			},
		},
		{
			name: "not found",
			setupMock: func(m *mocks.JobRepoMock) {
				m.On("GetByID", mock.Anything, "j_1").Return(nil, job.ErrJobNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "repository deadline",
			setupMock: func(m *mocks.JobRepoMock) {
				m.On("GetByID", mock.Anything, "j_1").
					Return(nil, fmt.Errorf("get job: %w", context.DeadlineExceeded))
			},
			wantStatus: http.StatusRequestTimeout,
		},
		{
			name: "database error",
			setupMock: func(m *mocks.JobRepoMock) {
				m.On("GetByID", mock.Anything, "j_1").Return(nil, errors.New("disk I/O error"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:      "canceled before lookup",
			setupMock: func(m *mocks.JobRepoMock) {},
			setupCtx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
			wantStatus: http.StatusRequestTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.JobRepoMock)
			tt.setupMock(repo)

			ctx := context.Background()
			if tt.setupCtx != nil {
				var cancel context.CancelFunc
				ctx, cancel = tt.setupCtx()
				defer cancel()
			}

			got, err := job.NewJobService(repo).GetJobByID(ctx, "j_1")

			if tt.wantStatus != 0 {
				var apiErr common.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.Status)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "j_1", got.ID)
				assert.Equal(t, "t_j_1", got.TicketID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestJobService_ListJobs(t *testing.T) {
	repo := new(mocks.JobRepoMock)
	repo.On("List", mock.Anything, job.ListFilter{TicketID: "t_1", Status: config.JobStatusRunning}).
		Return([]models.Job{sampleJob("j_2"), sampleJob("j_1")}, nil).Once()

	got, err := job.NewJobService(repo).ListJobs(context.Background(), dto.JobListQuery{
		TicketID: "t_1",
		Status:   "running",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "j_2", got[0].ID)
	assert.Equal(t, "j_1", got[1].ID)
	repo.AssertExpectations(t)
}

func TestJobService_ListJobs_Error(t *testing.T) {
	repo := new(mocks.JobRepoMock)
	repo.On("List", mock.Anything, job.ListFilter{}).Return(nil, errors.New("no such table: jobs"))

	_, err := job.NewJobService(repo).ListJobs(context.Background(), dto.JobListQuery{})

	var apiErr common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "failed to list jobs", apiErr.Message)
}
