package mocks

import (
	"context"

	"github.com/joshu-sajeev/recolour/internal/dto"
	"github.com/stretchr/testify/mock"
)

type PartnerServiceMock struct {
	mock.Mock
}

func (m *PartnerServiceMock) ListPartners(ctx context.Context) ([]dto.PartnerResponseDTO, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.PartnerResponseDTO), args.Error(1)
}

func (m *PartnerServiceMock) Overview(ctx context.Context) ([]dto.PartnerOverviewDTO, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.PartnerOverviewDTO), args.Error(1)
}
