package mocks

import (
	"context"

	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/models"
	"github.com/joshu-sajeev/recolour/internal/ticket"
	"github.com/stretchr/testify/mock"
)

type TicketRepoMock struct {
	mock.Mock
}

var _ ticket.TicketRepoInterface = (*TicketRepoMock)(nil)

func (m *TicketRepoMock) Create(ctx context.Context, t *models.Ticket, photos []string) (*models.Ticket, error) {
	args := m.Called(ctx, t, photos)

	created, _ := args.Get(0).(*models.Ticket)
	return created, args.Error(1)
}

func (m *TicketRepoMock) List(ctx context.Context, filter ticket.ListFilter) ([]models.Ticket, error) {
	args := m.Called(ctx, filter)

	tickets, _ := args.Get(0).([]models.Ticket)
	return tickets, args.Error(1)
}

func (m *TicketRepoMock) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	args := m.Called(ctx, id)

	t, _ := args.Get(0).(*models.Ticket)
	return t, args.Error(1)
}

func (m *TicketRepoMock) UpdateStatus(ctx context.Context, id string, status config.TicketStatus, action string) error {
	args := m.Called(ctx, id, status, action)
	return args.Error(0)
}

func (m *TicketRepoMock) CountByPartnerStatus(ctx context.Context) ([]models.TicketStatusCount, error) {
	args := m.Called(ctx)

	counts, _ := args.Get(0).([]models.TicketStatusCount)
	return counts, args.Error(1)
}

func (m *TicketRepoMock) UpdateStatusFrom(ctx context.Context, id string, from []config.TicketStatus, status config.TicketStatus, action string) (bool, error) {
	args := m.Called(ctx, id, from, status, action)
	return args.Bool(0), args.Error(1)
}
