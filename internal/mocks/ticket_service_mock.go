package mocks

import (
	"context"

	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/dto"
	"github.com/stretchr/testify/mock"
)

type TicketServiceMock struct {
	mock.Mock
}

func (m *TicketServiceMock) CreateTicket(ctx context.Context, req *dto.TicketCreateDTO) (*dto.TicketResponseDTO, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TicketResponseDTO), args.Error(1)
}

func (m *TicketServiceMock) ListTickets(ctx context.Context, query dto.TicketListQuery) ([]dto.TicketResponseDTO, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.TicketResponseDTO), args.Error(1)
}

func (m *TicketServiceMock) GetTicket(ctx context.Context, id string) (*dto.TicketResponseDTO, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TicketResponseDTO), args.Error(1)
}

func (m *TicketServiceMock) Send(ctx context.Context, id string) (*dto.TicketSendResponseDTO, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TicketSendResponseDTO), args.Error(1)
}

func (m *TicketServiceMock) Act(ctx context.Context, id string, action config.Action, role config.Role) (*dto.TicketSendResponseDTO, error) {
	args := m.Called(id, action, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TicketSendResponseDTO), args.Error(1)
}
