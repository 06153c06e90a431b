package dto

import "github.com/joshu-sajeev/recolour/internal/config"

type PartnerResponseDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Concurrency int    `json:"concurrency"`
}

// PartnerOverviewDTO summarises one partner's ticket load for managers.
type PartnerOverviewDTO struct {
	PartnerID   string                      `json:"partnerId"`
	PartnerName string                      `json:"partnerName"`
	Concurrency int                         `json:"concurrency"`
	Running     int64                       `json:"running"`
	Total       int                         `json:"total"`
	Counts      map[config.TicketStatus]int `json:"counts"`
}

type PhotosetResponseDTO struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ReferenceImage *string  `json:"referenceImage"`
	ProductPhotos  []string `json:"productPhotos"`
}
