package contacts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/repo"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

// Repository persists contacts.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

func (r *Repository) Create(ctx context.Context, contact *models.Contact) error {
	return r.DB(ctx).Create(contact).Error
}

// FindByID loads a live contact of the organization.
func (r *Repository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	if err := r.Tenant(ctx, organizationID).Where("id = ?", id).First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *Repository) Update(ctx context.Context, contact *models.Contact) error {
	return r.DB(ctx).Save(contact).Error
}

// Delete soft-deletes the contact.
func (r *Repository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.Tenant(ctx, organizationID).Where("id = ?", id).Delete(&models.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one buffered page of contacts, newest first.
func (r *Repository) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) ([]models.Contact, error) {
	q := r.Tenant(ctx, organizationID).Model(&models.Contact{})
	if filters.Type != nil {
		q = q.Where("type = ?", *filters.Type)
	}
	q = repo.Search(q, filters.Query, "name", "company", "email")
	q, err := repo.Page(q, "", page)
	if err != nil {
		return nil, err
	}
	var rows []models.Contact
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
