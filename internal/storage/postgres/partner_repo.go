package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshu-sajeev/recolour/internal/models"
	"github.com/joshu-sajeev/recolour/internal/partner"
	"gorm.io/gorm"
)

// DefaultPartners are seeded into an empty partners table.
var DefaultPartners = []models.Partner{
	{ID: "p1", Name: "Partner A", Concurrency: 1},
	{ID: "p2", Name: "Partner B", Concurrency: 1},
}

type PartnerRepository struct {
	db *gorm.DB
}

func NewPartnerRepository(db *gorm.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

var _ partner.PartnerRepoInterface = (*PartnerRepository)(nil)

// List returns every partner ordered by name.
func (r *PartnerRepository) List(ctx context.Context) ([]models.Partner, error) {
	var partners []models.Partner
	if err := r.db.WithContext(ctx).Order("name").Find(&partners).Error; err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return partners, nil
}

func (r *PartnerRepository) GetByID(ctx context.Context, id string) (*models.Partner, error) {
	var p models.Partner
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("get partner %s: %w", id, partner.ErrPartnerNotFound)
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return &p, nil
}

// SeedDefaults inserts DefaultPartners when the table is empty. Existing
// rows are never touched.
func (r *PartnerRepository) SeedDefaults(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Partner{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count partners: %w", err)
		}
		if count > 0 {
			return nil
		}

		seed := make([]models.Partner, len(DefaultPartners))
		copy(seed, DefaultPartners)
		if err := tx.Create(&seed).Error; err != nil {
			return fmt.Errorf("seed partners: %w", err)
		}
		return nil
	})
}
