package partner

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type PartnerHandler struct {
	service PartnerServiceInterface
}

func NewPartnerHandler(s PartnerServiceInterface) *PartnerHandler {
	return &PartnerHandler{service: s}
}

var _ PartnerHandlerInterface = (*PartnerHandler)(nil)

// List handles GET /api/partners.
func (h *PartnerHandler) List(c *gin.Context) {
	partners, err := h.service.ListPartners(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, partners)
}

// Overview handles GET /api/overview/partners. The route is manager-only.
func (h *PartnerHandler) Overview(c *gin.Context) {
	rows, err := h.service.Overview(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
