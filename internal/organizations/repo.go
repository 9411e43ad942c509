package organizations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/repo"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
)

// Repository handles organization persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to organization operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create persists a new organization row.
func (r *Repository) Create(ctx context.Context, dto CreateOrganizationDTO) (*models.Organization, error) {
	org := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}

// FindByID loads an organization by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Lock row-locks the organization until the surrounding transaction ends.
// Owner changes take it first so concurrent demotions see each other.
func (r *Repository) Lock(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := lockQuery(r.db.WithContext(ctx), id).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func lockQuery(q *gorm.DB, id uuid.UUID) *gorm.DB {
	return repo.ForUpdate(q.Where("id = ?", id), "organizations")
}

// Update saves the provided organization.
func (r *Repository) Update(ctx context.Context, org *models.Organization) error {
	if org == nil {
		return fmt.Errorf("organization is required")
	}
	return r.db.WithContext(ctx).Save(org).Error
}
