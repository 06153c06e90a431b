package models

import (
	"time"

	"github.com/joshu-sajeev/recolour/internal/config"
	"gorm.io/datatypes"
)

type Job struct {
	ID          string           `gorm:"primaryKey;type:varchar(64)"`
	TicketID    string           `gorm:"type:varchar(64);not null;uniqueIndex"`
	Ticket      *Ticket          `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	PartnerID   string           `gorm:"type:varchar(64);not null;index:idx_jobs_partner"`
	Partner     *Partner         `gorm:"foreignKey:PartnerID"`
	Status      config.JobStatus `gorm:"type:varchar(32);not null;default:'queued';index:idx_jobs_status_run_after,priority:1"`
	Attempts    int              `gorm:"not null;default:0"`
	MaxAttempts int              `gorm:"not null;default:3"`
	LastError   *string          `gorm:"type:text"`
	Result      datatypes.JSON
	RunAfter    time.Time `gorm:"not null;index:idx_jobs_status_run_after,priority:2"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Exhausted reports whether attempts has reached the attempt budget.
func (j *Job) Exhausted() bool {
	return j.Attempts >= j.MaxAttempts
}
