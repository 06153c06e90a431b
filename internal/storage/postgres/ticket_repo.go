package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/models"
	"github.com/joshu-sajeev/recolour/internal/ticket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	actionTicketCreated = "Ticket created"

	// priorityOrder sorts high before medium before low.
	priorityOrder = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END"
)

type TicketRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db, now: Now}
}

var _ ticket.TicketRepoInterface = (*TicketRepository)(nil)

// Create inserts the ticket, its photos and the "Ticket created" history
// entry in one transaction. An empty ID or status is filled in.
func (r *TicketRepository) Create(ctx context.Context, t *models.Ticket, photos []string) (*models.Ticket, error) {
	now := r.now()
	if t.ID == "" {
		t.ID = newID(ticketIDPrefix)
	}
	if t.Status == "" {
		t.Status = config.TicketStatusPending
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	paths := slices.Clone(photos)
	slices.Sort(paths)
	paths = slices.Compact(paths)

	rows := make([]models.TicketPhoto, 0, len(paths))
	for _, p := range paths {
		rows = append(rows, models.TicketPhoto{TicketID: t.ID, Path: p})
	}
	created := models.TicketHistory{TicketID: t.ID, At: now, Action: actionTicketCreated}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	t.Photos = rows
	t.History = []models.TicketHistory{created}
	return t, nil
}

// List returns the tickets matching every set filter field, highest
// priority first, with their photos attached. History is not loaded.
func (r *TicketRepository) List(ctx context.Context, filter ticket.ListFilter) ([]models.Ticket, error) {
	q := r.db.WithContext(ctx).Model(&models.Ticket{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PartnerID != "" {
		q = q.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}

	var tickets []models.Ticket
	if err := q.Order(priorityOrder).Order("created_at").Order("id").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	if len(tickets) == 0 {
		return tickets, nil
	}

	ids := make([]string, len(tickets))
	for i := range tickets {
		ids[i] = tickets[i].ID
	}

	var photos []models.TicketPhoto
	if err := r.db.WithContext(ctx).
		Where("ticket_id IN ?", ids).
		Order("path").
		Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("list ticket photos: %w", err)
	}

	byTicket := make(map[string][]models.TicketPhoto, len(tickets))
	for _, p := range photos {
		byTicket[p.TicketID] = append(byTicket[p.TicketID], p)
	}
	for i := range tickets {
		tickets[i].Photos = byTicket[tickets[i].ID]
	}

	return tickets, nil
}

// GetByID returns the ticket with photos and its history in chronological
// order.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	var found []models.Ticket
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if len(found) == 0 {
		return nil, ticket.ErrTicketNotFound
	}
	t := &found[0]

	if err := r.db.WithContext(ctx).
		Where("ticket_id = ?", id).
		Order("path").
		Find(&t.Photos).Error; err != nil {
		return nil, fmt.Errorf("get ticket photos: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Where("ticket_id = ?", id).
		Order("at").
		Order("id").
		Find(&t.History).Error; err != nil {
		return nil, fmt.Errorf("get ticket history: %w", err)
	}

	return t, nil
}

// UpdateStatus changes the ticket status and appends action to its
// history in one transaction.
func (r *TicketRepository) UpdateStatus(ctx context.Context, id string, status config.TicketStatus, action string) error {
	_, err := r.transition(ctx, id, nil, status, action)
	return err
}

// UpdateStatusFrom is UpdateStatus guarded by the current status: it only
// applies when the ticket is in one of from, and reports whether it did.
func (r *TicketRepository) UpdateStatusFrom(ctx context.Context, id string, from []config.TicketStatus, status config.TicketStatus, action string) (bool, error) {
	return r.transition(ctx, id, from, status, action)
}

func (r *TicketRepository) transition(ctx context.Context, id string, from []config.TicketStatus, status config.TicketStatus, action string) (bool, error) {
	now := r.now()
	applied := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Ticket{}).Where("id = ?", id)
		if from != nil {
			q = q.Where("status IN ?", from)
		}

		res := q.Updates(map[string]any{
			"status":     status,
			"updated_at": now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.Ticket{}).Where("id = ?", id).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ticket.ErrTicketNotFound
			}
			return nil
		}

		applied = true
		return tx.Create(&models.TicketHistory{TicketID: id, At: now, Action: action}).Error
	})
	if err != nil {
		if errors.Is(err, ticket.ErrTicketNotFound) {
			return false, fmt.Errorf("update ticket %s: %w", id, err)
		}
		return false, fmt.Errorf("update ticket status: %w", err)
	}
	return applied, nil
}

// CountByPartnerStatus returns one row per (partner, status) pair that has
// at least one ticket.
func (r *TicketRepository) CountByPartnerStatus(ctx context.Context) ([]models.TicketStatusCount, error) {
	var counts []models.TicketStatusCount
	if err := r.db.WithContext(ctx).Model(&models.Ticket{}).
		Select("partner_id, status, COUNT(*) AS count").
		Group("partner_id").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	return counts, nil
}
