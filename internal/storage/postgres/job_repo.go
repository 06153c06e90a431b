package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/job"
	"github.com/joshu-sajeev/recolour/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db, now: Now}
}

var _ job.JobRepoInterface = (*JobRepository)(nil)

// Enqueue creates a queued job for ticketID that is immediately eligible
// for claiming. If the ticket already has a job, that job is returned
// unchanged; the unique ticket_id index makes this safe under concurrent
// callers.
func (r *JobRepository) Enqueue(ctx context.Context, ticketID, partnerID string, maxAttempts int) (*models.Job, error) {
	if maxAttempts <= 0 {
		maxAttempts = config.DefaultMaxAttempts
	}

	now := r.now()
	j := &models.Job{
		ID:          newID(jobIDPrefix),
		TicketID:    ticketID,
		PartnerID:   partnerID,
		Status:      config.JobStatusQueued,
		MaxAttempts: maxAttempts,
		RunAfter:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ticket_id"}},
			DoNothing: true,
		}).
		Create(j)
	if res.Error != nil {
		return nil, fmt.Errorf("enqueue job: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		existing, err := r.GetByTicketID(ctx, ticketID)
		if err != nil {
			return nil, fmt.Errorf("enqueue job: %w", err)
		}
		return existing, nil
	}

	return j, nil
}

// ClaimNextForPartner moves the oldest eligible queued job of the partner
// to running and returns it, or returns nil when nothing is eligible.
// The select and the queued->running transition share one transaction;
// the status guard on the update means two claimers can never both win
// the same row, and on postgres SKIP LOCKED lets them pick different rows.
func (r *JobRepository) ClaimNextForPartner(ctx context.Context, partnerID string) (*models.Job, error) {
	var claimed *models.Job

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := r.now()

		q := tx.Where("partner_id = ? AND status = ? AND run_after <= ?",
			partnerID, config.JobStatusQueued, now).
			Order("created_at").
			Order("id").
			Limit(1)
		if tx.Dialector.Name() == DriverPostgres {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}

		var candidates []models.Job
		if err := q.Find(&candidates).Error; err != nil {
			return fmt.Errorf("select candidate: %w", err)
		}
		if len(candidates) == 0 {
			return nil
		}
		candidate := candidates[0]

		res := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", candidate.ID, config.JobStatusQueued).
			Updates(map[string]any{
				"status":     config.JobStatusRunning,
				"updated_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("mark running: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		candidate.Status = config.JobStatusRunning
		candidate.UpdatedAt = now
		claimed = &candidate
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("claim job: %w", err)
	}

	return claimed, nil
}

// SetStatus writes status plus whichever patch fields are set. updated_at
// is always refreshed.
func (r *JobRepository) SetStatus(ctx context.Context, id string, status config.JobStatus, patch job.Patch) error {
	updates := map[string]any{
		"status":     status,
		"updated_at": r.now(),
	}
	if patch.Attempts != nil {
		updates["attempts"] = *patch.Attempts
	}
	if patch.ClearError {
		updates["last_error"] = nil
	} else if patch.LastError != nil {
		updates["last_error"] = *patch.LastError
	}
	if patch.RunAfter != nil {
		updates["run_after"] = patch.RunAfter.UTC().Truncate(time.Microsecond)
	}
	if patch.Result != nil {
		updates["result"] = patch.Result
	}

	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("set job status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("set job status %s: %w", id, job.ErrJobNotFound)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *JobRepository) GetByTicketID(ctx context.Context, ticketID string) (*models.Job, error) {
	return r.findOne(ctx, "ticket_id = ?", ticketID)
}

// findOne avoids First so that gorm does not log every miss as an error.
func (r *JobRepository) findOne(ctx context.Context, query string, args ...any) (*models.Job, error) {
	var jobs []models.Job
	if err := r.db.WithContext(ctx).Where(query, args...).Limit(1).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if len(jobs) == 0 {
		return nil, job.ErrJobNotFound
	}
	return &jobs[0], nil
}

// ResetToQueued reopens the ticket's job: queued again, eligible now, last
// error cleared and a fresh budget of DefaultMaxAttempts on top of the
// attempts already spent. Only a done or failed job is reopened; an active
// job is returned unchanged so that a running job is never queued twice.
func (r *JobRepository) ResetToQueued(ctx context.Context, ticketID string) (*models.Job, error) {
	var reset *models.Job

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := r.now()

		// only a finished job is reopened; a queued or running one is
		// returned as it is
		res := tx.Model(&models.Job{}).
			Where("ticket_id = ? AND status IN ?", ticketID,
				[]config.JobStatus{config.JobStatusDone, config.JobStatusFailed}).
			Updates(map[string]any{
				"status":       config.JobStatusQueued,
				"max_attempts": gorm.Expr("attempts + ?", config.DefaultMaxAttempts),
				"last_error":   nil,
				"run_after":    now,
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}

		var jobs []models.Job
		if err := tx.Where("ticket_id = ?", ticketID).Limit(1).Find(&jobs).Error; err != nil {
			return err
		}
		if len(jobs) == 0 {
			return job.ErrJobNotFound
		}
		reset = &jobs[0]
		return nil
	})
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("reset job: %w", err)
	}

	return reset, nil
}

// List returns jobs newest first.
func (r *JobRepository) List(ctx context.Context, filter job.ListFilter) ([]models.Job, error) {
	q := r.db.WithContext(ctx).Model(&models.Job{})
	if filter.TicketID != "" {
		q = q.Where("ticket_id = ?", filter.TicketID)
	}
	if filter.PartnerID != "" {
		q = q.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var jobs []models.Job
	if err := q.Order("created_at DESC").Order("id DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// CountRunning returns how many of the partner's jobs are in running state.
func (r *JobRepository) CountRunning(ctx context.Context, partnerID string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("partner_id = ? AND status = ?", partnerID, config.JobStatusRunning).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count running jobs: %w", err)
	}
	return n, nil
}

// RequeueStale puts jobs that have been running for longer than staleAfter
// back in the queue, eligible immediately. Attempts are left untouched; a
// job abandoned by a dead process did not fail.
func (r *JobRepository) RequeueStale(ctx context.Context, staleAfter time.Duration) (int64, error) {
	now := r.now()

	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("status = ? AND updated_at < ?", config.JobStatusRunning, now.Add(-staleAfter)).
		Updates(map[string]any{
			"status":     config.JobStatusQueued,
			"run_after":  now,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("requeue stale jobs: %w", res.Error)
	}
	return res.RowsAffected, nil
}
