package job

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/recolour/internal/dto"
	"github.com/joshu-sajeev/recolour/middleware"
)

type JobHandler struct {
	service JobServiceInterface
}

func NewJobHandler(s JobServiceInterface) *JobHandler {
	return &JobHandler{service: s}
}

var _ JobHandlerInterface = (*JobHandler)(nil)

// Get handles GET /api/jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	resp, err := h.service.GetJobByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/jobs with optional ticketId, partnerId and
// status filters.
func (h *JobHandler) List(c *gin.Context) {
	var query dto.JobListQuery
	if !middleware.BindQuery(c, &query) {
		return
	}

	jobs, err := h.service.ListJobs(c.Request.Context(), query)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}
