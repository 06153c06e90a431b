package models

import (
	"time"

	"github.com/joshu-sajeev/recolour/internal/config"
)

type Ticket struct {
	ID                 string              `gorm:"primaryKey;type:varchar(64)"`
	PhotoSetID         string              `gorm:"type:varchar(255);not null"`
	Priority           config.Priority     `gorm:"type:varchar(16);not null"`
	PartnerID          string              `gorm:"type:varchar(64);not null;index:idx_tickets_partner"`
	Partner            *Partner            `gorm:"foreignKey:PartnerID"`
	Status             config.TicketStatus `gorm:"type:varchar(32);not null;index:idx_tickets_status"`
	ReferenceImagePath *string             `gorm:"type:text"`
	Photos             []TicketPhoto       `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	History            []TicketHistory     `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type TicketPhoto struct {
	TicketID string `gorm:"primaryKey;type:varchar(64)"`
	Path     string `gorm:"primaryKey;type:varchar(1024)"`
}

// TicketHistory is one append-only audit entry. ID is monotonic so that
// entries written within the same instant keep their order.
type TicketHistory struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	TicketID string    `gorm:"type:varchar(64);not null;index"`
	At       time.Time `gorm:"not null"`
	Action   string    `gorm:"type:text;not null"`
}

func (TicketHistory) TableName() string { return "ticket_history" }

// TicketStatusCount is an aggregate row, not a table.
type TicketStatusCount struct {
	PartnerID string
	Status    config.TicketStatus
	Count     int
}
