package partner

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/recolour/internal/dto"
	"github.com/joshu-sajeev/recolour/internal/models"
)

var ErrPartnerNotFound = errors.New("partner not found")

// PartnerRepoInterface defines the contract for the partner registry.
type PartnerRepoInterface interface {
	List(ctx context.Context) ([]models.Partner, error)
	GetByID(ctx context.Context, id string) (*models.Partner, error)
	SeedDefaults(ctx context.Context) error
}

// TicketCounter is the slice of the ticket store the overview reads.
type TicketCounter interface {
	CountByPartnerStatus(ctx context.Context) ([]models.TicketStatusCount, error)
}

// RunningCounter is the slice of the job store the overview reads.
type RunningCounter interface {
	CountRunning(ctx context.Context, partnerID string) (int64, error)
}

type PartnerServiceInterface interface {
	ListPartners(ctx context.Context) ([]dto.PartnerResponseDTO, error)
	Overview(ctx context.Context) ([]dto.PartnerOverviewDTO, error)
}

type PartnerHandlerInterface interface {
	List(c *gin.Context)
	Overview(c *gin.Context)
}
