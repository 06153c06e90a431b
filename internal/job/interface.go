package job

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/dto"
	"github.com/joshu-sajeev/recolour/internal/models"
	"gorm.io/datatypes"
)

// ErrJobNotFound is returned by point lookups and ResetToQueued when no
// job matches.
var ErrJobNotFound = errors.New("job not found")

// Patch is a partial job update. Nil fields are left unchanged; set
// ClearError to null out last_error.
type Patch struct {
	Attempts   *int
	LastError  *string
	ClearError bool
	RunAfter   *time.Time
	Result     datatypes.JSON
}

// ListFilter narrows List. Empty fields do not constrain.
type ListFilter struct {
	TicketID  string
	PartnerID string
	Status    config.JobStatus
}

// JobRepoInterface defines the contract for the job store.
type JobRepoInterface interface {
	Enqueue(ctx context.Context, ticketID, partnerID string, maxAttempts int) (*models.Job, error)
	ClaimNextForPartner(ctx context.Context, partnerID string) (*models.Job, error)
	SetStatus(ctx context.Context, id string, status config.JobStatus, patch Patch) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	GetByTicketID(ctx context.Context, ticketID string) (*models.Job, error)
	ResetToQueued(ctx context.Context, ticketID string) (*models.Job, error)
	List(ctx context.Context, filter ListFilter) ([]models.Job, error)
	CountRunning(ctx context.Context, partnerID string) (int64, error)
	RequeueStale(ctx context.Context, staleAfter time.Duration) (int64, error)
}

// JobServiceInterface defines the contract for the read-only jobs API.
type JobServiceInterface interface {
	GetJobByID(ctx context.Context, id string) (*dto.JobResponseDTO, error)
	ListJobs(ctx context.Context, query dto.JobListQuery) ([]dto.JobResponseDTO, error)
}

// JobHandlerInterface defines the contract for HTTP request handlers.
type JobHandlerInterface interface {
	Get(c *gin.Context)
	List(c *gin.Context)
}
