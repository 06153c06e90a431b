package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/dto"
	"github.com/joshu-sajeev/recolour/middleware"
)

type TicketHandler struct {
	service TicketServiceInterface
}

func NewTicketHandler(s TicketServiceInterface) *TicketHandler {
	return &TicketHandler{service: s}
}

var _ TicketHandlerInterface = (*TicketHandler)(nil)

// Create handles POST /api/tickets. The route is operator-only.
func (h *TicketHandler) Create(c *gin.Context) {
	var req dto.TicketCreateDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.CreateTicket(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// List handles GET /api/tickets?status=&partnerId=&priority=.
func (h *TicketHandler) List(c *gin.Context) {
	var query dto.TicketListQuery
	if !middleware.BindQuery(c, &query) {
		return
	}

	tickets, err := h.service.ListTickets(c.Request.Context(), query)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) Get(c *gin.Context) {
	resp, err := h.service.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Send handles POST /api/tickets/:id/send. The route is operator-only.
func (h *TicketHandler) Send(c *gin.Context) {
	resp, err := h.service.Send(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Action handles POST /api/tickets/:id/action. Each action carries its own
// role requirement, so the role is checked by the service.
func (h *TicketHandler) Action(c *gin.Context) {
	var req dto.TicketActionDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.Act(c.Request.Context(), c.Param("id"), req.Action, middleware.RoleFromHeader(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Approved handles GET /api/library/approved.
func (h *TicketHandler) Approved(c *gin.Context) {
	tickets, err := h.service.ListTickets(c.Request.Context(), dto.TicketListQuery{
		Status: string(config.TicketStatusApproved),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, tickets)
}
