package ticket

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/dto"
	"github.com/joshu-sajeev/recolour/internal/models"
)

var ErrTicketNotFound = errors.New("ticket not found")

// ListFilter narrows List with AND semantics. Empty fields do not constrain.
type ListFilter struct {
	Status    config.TicketStatus
	PartnerID string
	Priority  config.Priority
}

// TicketRepoInterface defines the contract for the ticket status tracker.
type TicketRepoInterface interface {
	Create(ctx context.Context, ticket *models.Ticket, photos []string) (*models.Ticket, error)
	List(ctx context.Context, filter ListFilter) ([]models.Ticket, error)
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status config.TicketStatus, action string) error
	UpdateStatusFrom(ctx context.Context, id string, from []config.TicketStatus, status config.TicketStatus, action string) (bool, error)
	CountByPartnerStatus(ctx context.Context) ([]models.TicketStatusCount, error)
}

// TicketServiceInterface defines the contract for ticket business logic.
type TicketServiceInterface interface {
	CreateTicket(ctx context.Context, req *dto.TicketCreateDTO) (*dto.TicketResponseDTO, error)
	ListTickets(ctx context.Context, query dto.TicketListQuery) ([]dto.TicketResponseDTO, error)
	GetTicket(ctx context.Context, id string) (*dto.TicketResponseDTO, error)
	Send(ctx context.Context, id string) (*dto.TicketSendResponseDTO, error)
	Act(ctx context.Context, id string, action config.Action, role config.Role) (*dto.TicketSendResponseDTO, error)
}

// TicketHandlerInterface defines the contract for HTTP request handlers.
type TicketHandlerInterface interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Send(c *gin.Context)
	Action(c *gin.Context)
	Approved(c *gin.Context)
}
