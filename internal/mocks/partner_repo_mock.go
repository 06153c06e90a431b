package mocks

import (
	"context"

	"github.com/joshu-sajeev/recolour/internal/models"
	"github.com/joshu-sajeev/recolour/internal/partner"
	"github.com/stretchr/testify/mock"
)

type PartnerRepoMock struct {
	mock.Mock
}

var _ partner.PartnerRepoInterface = (*PartnerRepoMock)(nil)

func (m *PartnerRepoMock) List(ctx context.Context) ([]models.Partner, error) {
	args := m.Called(ctx)

	partners, _ := args.Get(0).([]models.Partner)
	return partners, args.Error(1)
}

func (m *PartnerRepoMock) GetByID(ctx context.Context, id string) (*models.Partner, error) {
	args := m.Called(ctx, id)

	p, _ := args.Get(0).(*models.Partner)
	return p, args.Error(1)
}

func (m *PartnerRepoMock) SeedDefaults(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
