package dto

import (
	"time"

	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/models"
)

type TicketCreateDTO struct {
	PhotoSetID string          `json:"photoSetId" validate:"required"`
	Priority   config.Priority `json:"priority" validate:"required,oneof=low medium high"`
	PartnerID  string          `json:"partnerId" validate:"required"`
}

type TicketActionDTO struct {
	Action config.Action `json:"action" validate:"required"`
}

// TicketListQuery narrows GET /api/tickets. Empty fields do not constrain.
type TicketListQuery struct {
	Status    string `form:"status" validate:"omitempty,oneof=pending queued in_progress awaiting_approval approved rejected"`
	PartnerID string `form:"partnerId"`
	Priority  string `form:"priority" validate:"omitempty,oneof=low medium high"`
}

type HistoryEntryDTO struct {
	ID     uint      `json:"id"`
	At     time.Time `json:"at"`
	Action string    `json:"action"`
}

type TicketResponseDTO struct {
	ID                 string              `json:"id"`
	PhotoSetID         string              `json:"photoSetId"`
	Priority           config.Priority     `json:"priority"`
	PartnerID          string              `json:"partnerId"`
	Status             config.TicketStatus `json:"status"`
	ReferenceImagePath *string             `json:"referenceImagePath"`
	Photos             []string            `json:"photos"`
	History            []HistoryEntryDTO   `json:"history,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// TicketSendResponseDTO is returned by the send endpoints.
type TicketSendResponseDTO struct {
	OK  bool            `json:"ok"`
	Job *JobResponseDTO `json:"job,omitempty"`
}

func NewTicketResponse(t *models.Ticket) *TicketResponseDTO {
	if t == nil {
		return nil
	}

	photos := make([]string, 0, len(t.Photos))
	for _, p := range t.Photos {
		photos = append(photos, p.Path)
	}

	var history []HistoryEntryDTO
	for _, h := range t.History {
		history = append(history, HistoryEntryDTO{ID: h.ID, At: h.At, Action: h.Action})
	}

	return &TicketResponseDTO{
		ID:                 t.ID,
		PhotoSetID:         t.PhotoSetID,
		Priority:           t.Priority,
		PartnerID:          t.PartnerID,
		Status:             t.Status,
		ReferenceImagePath: t.ReferenceImagePath,
		Photos:             photos,
		History:            history,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}
