package purchasing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/repo"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

// ErrInUse is returned when a live budget item still prices from the row.
var ErrInUse = errors.New("purchasing is referenced by budget items")

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

func (r *Repository) Create(ctx context.Context, p *models.Purchasing) error {
	return r.DB(ctx).Create(p).Error
}

func (r *Repository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Purchasing, error) {
	var p models.Purchasing
	if err := r.Tenant(ctx, organizationID).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Update(ctx context.Context, p *models.Purchasing) error {
	return r.DB(ctx).Save(p).Error
}

// Delete soft-deletes the row unless a live plan or actual item references it.
func (r *Repository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	db := r.DB(ctx)
	planRefs := db.Model(&models.BudgetPlanItem{}).Select("1").Where("purchasing_id = ?", id)
	actualRefs := db.Model(&models.ActualBudgetItem{}).Select("1").Where("purchasing_id = ?", id)

	res := r.Tenant(ctx, organizationID).
		Where("id = ?", id).
		Where("NOT EXISTS (?)", planRefs).
		Where("NOT EXISTS (?)", actualRefs).
		Delete(&models.Purchasing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, organizationID, id); err != nil {
		return err
	}
	return ErrInUse
}

func (r *Repository) List(ctx context.Context, organizationID uuid.UUID, query string, page pagination.Params) ([]models.Purchasing, error) {
	q := repo.Search(r.Tenant(ctx, organizationID).Model(&models.Purchasing{}), query, "item_name", "vendor_name")
	q, err := repo.Page(q, "", page)
	if err != nil {
		return nil, err
	}
	var rows []models.Purchasing
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
