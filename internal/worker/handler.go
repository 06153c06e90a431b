package worker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/joshu-sajeev/recolour/internal/models"
)

// ErrPartnerFailure is the error reported by a simulated partner that
// decided to fail the attempt.
var ErrPartnerFailure = errors.New("simulated partner failure")

// Outcome performs the partner side of one job attempt. A nil error is a
// delivered result; any error counts as a failed attempt.
type Outcome interface {
	Attempt(ctx context.Context, job *models.Job) (any, error)
}

// OutcomeFunc adapts a function to Outcome.
type OutcomeFunc func(ctx context.Context, job *models.Job) (any, error)

func (f OutcomeFunc) Attempt(ctx context.Context, job *models.Job) (any, error) {
	return f(ctx, job)
}

// SimulatedPartner stands in for a real retouching partner: it waits
// Duration and then fails with probability FailureRate.
type SimulatedPartner struct {
	Duration    time.Duration
	FailureRate float64

	// roll returns a value in [0,1); defaults to math/rand.
	roll func() float64
}

func NewSimulatedPartner(duration time.Duration, failureRate float64) *SimulatedPartner {
	return &SimulatedPartner{Duration: duration, FailureRate: failureRate, roll: rand.Float64}
}

func (p *SimulatedPartner) Attempt(ctx context.Context, job *models.Job) (any, error) {
	select {
	case <-time.After(p.Duration):
	case <-ctx.Done():
		return nil, fmt.Errorf("partner attempt canceled: %w", ctx.Err())
	}

	roll := p.roll
	if roll == nil {
		roll = rand.Float64
	}
	if p.FailureRate > 0 && roll() < p.FailureRate {
		return nil, ErrPartnerFailure
	}

	return map[string]any{
		"partnerId":   job.PartnerID,
		"ticketId":    job.TicketID,
		"deliveredAt": time.Now().UTC().Format(time.RFC3339),
	}, nil
}
