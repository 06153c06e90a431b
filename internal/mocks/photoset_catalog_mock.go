package mocks

import (
	"context"

	"github.com/joshu-sajeev/recolour/internal/photoset"
	"github.com/stretchr/testify/mock"
)

type PhotosetCatalogMock struct {
	mock.Mock
}

var _ photoset.CatalogInterface = (*PhotosetCatalogMock)(nil)

func (m *PhotosetCatalogMock) List(ctx context.Context) ([]photoset.Photoset, error) {
	args := m.Called(ctx)

	sets, _ := args.Get(0).([]photoset.Photoset)
	return sets, args.Error(1)
}

func (m *PhotosetCatalogMock) Get(ctx context.Context, id string) (*photoset.Photoset, error) {
	args := m.Called(ctx, id)

	set, _ := args.Get(0).(*photoset.Photoset)
	return set, args.Error(1)
}
