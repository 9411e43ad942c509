package vendorservices

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/repo"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

// Repository persists vendor services.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

func (r *Repository) Create(ctx context.Context, svc *models.VendorService) error {
	return r.DB(ctx).Create(svc).Error
}

func (r *Repository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*models.VendorService, error) {
	var svc models.VendorService
	if err := r.Tenant(ctx, organizationID).Where("id = ?", id).First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *Repository) Update(ctx context.Context, svc *models.VendorService) error {
	return r.DB(ctx).Save(svc).Error
}

func (r *Repository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.Tenant(ctx, organizationID).Where("id = ?", id).Delete(&models.VendorService{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) ([]models.VendorService, error) {
	q := r.Tenant(ctx, organizationID).Model(&models.VendorService{})
	if filters.VendorContactID != nil {
		q = q.Where("vendor_contact_id = ?", *filters.VendorContactID)
	}
	q = repo.Search(q, filters.Query, "service_name", "category")
	q, err := repo.Page(q, "", page)
	if err != nil {
		return nil, err
	}
	var rows []models.VendorService
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
