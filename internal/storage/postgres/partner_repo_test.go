package postgres

import (
	"context"
	"testing"

	"github.com/joshu-sajeev/recolour/internal/models"
	"github.com/joshu-sajeev/recolour/internal/partner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartnerRepository_SeedDefaults(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewPartnerRepository(db)
	ctx := context.Background()

	// second seed must not duplicate or overwrite
	require.NoError(t, db.Model(&models.Partner{}).Where("id = ?", "p1").Update("concurrency", 4).Error)
	require.NoError(t, repo.SeedDefaults(ctx))

	partners, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, partners, 2)

	assert.Equal(t, "p1", partners[0].ID)
	assert.Equal(t, "Partner A", partners[0].Name)
	assert.Equal(t, 4, partners[0].Concurrency)
	assert.Equal(t, "p2", partners[1].ID)
	assert.Equal(t, 1, partners[1].Concurrency)
}

func TestPartnerRepository_GetByID(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewPartnerRepository(db)

	p, err := repo.GetByID(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "Partner B", p.Name)

	_, err = repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, partner.ErrPartnerNotFound)
}
