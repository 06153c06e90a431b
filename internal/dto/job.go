package dto

import (
	"encoding/json"
	"time"

	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/models"
)

type JobResponseDTO struct {
	ID          string           `json:"id"`
	TicketID    string           `json:"ticketId"`
	PartnerID   string           `json:"partnerId"`
	Status      config.JobStatus `json:"status"`
	Attempts    int              `json:"attempts"`
	MaxAttempts int              `json:"maxAttempts"`
	LastError   *string          `json:"lastError"`
	Result      json.RawMessage  `json:"result,omitempty"`
	RunAfter    time.Time        `json:"runAfter"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// JobListQuery narrows GET /api/jobs. Empty fields do not constrain.
type JobListQuery struct {
	TicketID  string `form:"ticketId"`
	PartnerID string `form:"partnerId"`
	Status    string `form:"status" validate:"omitempty,oneof=queued running done failed"`
}

func NewJobResponse(job *models.Job) *JobResponseDTO {
	if job == nil {
		return nil
	}
	return &JobResponseDTO{
		ID:          job.ID,
		TicketID:    job.TicketID,
		PartnerID:   job.PartnerID,
		Status:      job.Status,
		Attempts:    job.Attempts,
		MaxAttempts: job.MaxAttempts,
		LastError:   job.LastError,
		Result:      json.RawMessage(job.Result),
		RunAfter:    job.RunAfter,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}
