package mocks

import (
	"context"

	"github.com/joshu-sajeev/recolour/internal/models"
	"github.com/stretchr/testify/mock"
)

// OutcomeMock satisfies worker.Outcome.
type OutcomeMock struct {
	mock.Mock
}

func (m *OutcomeMock) Attempt(ctx context.Context, job *models.Job) (any, error) {
	args := m.Called(ctx, job)
	return args.Get(0), args.Error(1)
}
