package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/job"
	"github.com/joshu-sajeev/recolour/internal/models"
	"github.com/joshu-sajeev/recolour/internal/ticket"
	"gorm.io/datatypes"
)

const (
	ActionStarted         = "Partner started processing"
	ActionDelivered       = "Partner delivered result (awaiting approval)"
	ActionFailedPermanent = "Partner job failed permanently"
)

// RetryAction is the history entry written when a failed attempt is
// re-queued with the given delay.
func RetryAction(delay time.Duration) string {
	return fmt.Sprintf("Partner failed, retry scheduled in %ds", int(delay/time.Second))
}

// Executor runs one claimed job to its next resting state and keeps the
// parent ticket in step with it.
type Executor struct {
	jobs    job.JobRepoInterface
	tickets ticket.TicketRepoInterface
	outcome Outcome
	backoff Schedule
	now     func() time.Time
}

func NewExecutor(jobs job.JobRepoInterface, tickets ticket.TicketRepoInterface, outcome Outcome) *Executor {
	return &Executor{
		jobs:    jobs,
		tickets: tickets,
		outcome: outcome,
		backoff: DefaultSchedule,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithBackoff replaces the retry schedule.
func (e *Executor) WithBackoff(s Schedule) *Executor {
	e.backoff = s
	return e
}

// Execute drives a job that the store has already moved to running.
// Partner failures are absorbed into the job state; only store errors
// are returned.
func (e *Executor) Execute(ctx context.Context, j *models.Job) error {
	if err := e.tickets.UpdateStatus(ctx, j.TicketID, config.TicketStatusInProgress, ActionStarted); err != nil {
		e.release(ctx, j)
		return fmt.Errorf("mark ticket %s in progress: %w", j.TicketID, err)
	}

	res, err := e.attempt(ctx, j)
	if err != nil {
		return e.fail(ctx, j, err)
	}

	return e.succeed(ctx, j, res)
}

// release hands a job that never reached the partner back to the queue,
// eligible now and without spending an attempt.
func (e *Executor) release(ctx context.Context, j *models.Job) {
	now := e.now()
	if err := e.jobs.SetStatus(ctx, j.ID, config.JobStatusQueued, job.Patch{RunAfter: &now}); err != nil {
		log.Printf("[Executor] job %s: release failed, left for the janitor: %v", j.ID, err)
	}
}

func (e *Executor) attempt(ctx context.Context, j *models.Job) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("partner panicked: %v", r)
		}
	}()
	return e.outcome.Attempt(ctx, j)
}

func (e *Executor) succeed(ctx context.Context, j *models.Job, res any) error {
	patch := job.Patch{ClearError: true}
	if res != nil {
		b, err := json.Marshal(res)
		if err != nil {
			log.Printf("[Executor] job %s: result not serializable: %v", j.ID, err)
		} else {
			patch.Result = datatypes.JSON(b)
		}
	}

	if err := e.jobs.SetStatus(ctx, j.ID, config.JobStatusDone, patch); err != nil {
		return fmt.Errorf("mark job %s done: %w", j.ID, err)
	}
	if err := e.tickets.UpdateStatus(ctx, j.TicketID, config.TicketStatusAwaitingApproval, ActionDelivered); err != nil {
		return fmt.Errorf("mark ticket %s awaiting approval: %w", j.TicketID, err)
	}

	log.Printf("[Executor] job %s done", j.ID)
	return nil
}

func (e *Executor) fail(ctx context.Context, j *models.Job, cause error) error {
	j.Attempts++
	attempts := j.Attempts
	msg := cause.Error()
	patch := job.Patch{Attempts: &attempts, LastError: &msg}

	if j.Exhausted() {
		if err := e.jobs.SetStatus(ctx, j.ID, config.JobStatusFailed, patch); err != nil {
			return fmt.Errorf("mark job %s failed: %w", j.ID, err)
		}
		if err := e.tickets.UpdateStatus(ctx, j.TicketID, config.TicketStatusRejected, ActionFailedPermanent); err != nil {
			return fmt.Errorf("mark ticket %s rejected: %w", j.TicketID, err)
		}
		log.Printf("[Executor] job %s failed permanently after %d attempts: %s", j.ID, attempts, msg)
		return nil
	}

	delay := e.backoff.Delay(attempts)
	runAfter := e.now().Add(delay)
	patch.RunAfter = &runAfter

	if err := e.jobs.SetStatus(ctx, j.ID, config.JobStatusQueued, patch); err != nil {
		return fmt.Errorf("requeue job %s: %w", j.ID, err)
	}
	if err := e.tickets.UpdateStatus(ctx, j.TicketID, config.TicketStatusQueued, RetryAction(delay)); err != nil {
		return fmt.Errorf("mark ticket %s queued: %w", j.TicketID, err)
	}

	log.Printf("[Executor] job %s attempt %d/%d failed, retry in %v: %s", j.ID, attempts, j.MaxAttempts, delay, msg)
	return nil
}
