package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/repo"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

var (
	// ErrInsufficientQuantity is returned when a reservation would exceed the available quantity.
	ErrInsufficientQuantity = errors.New("insufficient inventory quantity")
	// ErrReservationUnderflow is returned when releasing more than is reserved.
	ErrReservationUnderflow = errors.New("release exceeds reserved quantity")
	// ErrReservedExceedsTotal guards total_qty updates and deletes against live reservations.
	ErrReservedExceedsTotal = errors.New("inventory has reserved quantity")
)

// Repository persists inventory and applies guarded reservation updates.
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

func (r *Repository) Create(ctx context.Context, item *models.Inventory) error {
	return r.DB(ctx).Create(item).Error
}

// FindByID loads a live inventory row of the organization.
func (r *Repository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Inventory, error) {
	var item models.Inventory
	if err := r.Tenant(ctx, organizationID).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateDetails saves editable fields. The write is refused when the new
// total would drop below what is currently reserved.
func (r *Repository) UpdateDetails(ctx context.Context, item *models.Inventory) error {
	res := r.Tenant(ctx, item.OrganizationID).
		Model(&models.Inventory{}).
		Where("id = ? AND reserved_qty <= ?", item.ID, item.TotalQty).
		Updates(map[string]any{
			"name":         item.Name,
			"category":     item.Category,
			"description":  item.Description,
			"total_qty":    item.TotalQty,
			"unit_price":   item.UnitPrice,
			"is_available": item.IsAvailable,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missingOr(ctx, item.OrganizationID, item.ID, ErrReservedExceedsTotal)
	}
	return nil
}

// Delete soft-deletes an item that holds no reservation.
func (r *Repository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	res := r.Tenant(ctx, organizationID).
		Where("id = ? AND reserved_qty = 0", id).
		Delete(&models.Inventory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missingOr(ctx, organizationID, id, ErrReservedExceedsTotal)
	}
	return nil
}

// List returns one buffered page of inventory, newest first.
func (r *Repository) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters, page pagination.Params) ([]models.Inventory, error) {
	q := r.Tenant(ctx, organizationID).Model(&models.Inventory{})
	if filters.AvailableOnly {
		q = q.Where("is_available = ? AND total_qty > reserved_qty", true)
	}
	q = repo.Search(q, filters.Query, "name", "category")
	q, err := repo.Page(q, "", page)
	if err != nil {
		return nil, err
	}
	var rows []models.Inventory
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Reserve atomically moves qty from available to reserved. Concurrent callers
// cannot overdraw because the availability check is part of the UPDATE.
func (r *Repository) Reserve(ctx context.Context, organizationID, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	res := r.Tenant(ctx, organizationID).
		Model(&models.Inventory{}).
		Where("id = ? AND is_available = ? AND total_qty - reserved_qty >= ?", id, true, qty).
		UpdateColumn("reserved_qty", gorm.Expr("reserved_qty + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missingOr(ctx, organizationID, id, ErrInsufficientQuantity)
	}
	return nil
}

// Release returns qty to the available pool.
func (r *Repository) Release(ctx context.Context, organizationID, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	res := r.Tenant(ctx, organizationID).
		Unscoped().
		Model(&models.Inventory{}).
		Where("id = ? AND reserved_qty >= ?", id, qty).
		UpdateColumn("reserved_qty", gorm.Expr("reserved_qty - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missingOr(ctx, organizationID, id, ErrReservationUnderflow)
	}
	return nil
}

func (r *Repository) missingOr(ctx context.Context, organizationID, id uuid.UUID, otherwise error) error {
	var count int64
	if err := r.Tenant(ctx, organizationID).Model(&models.Inventory{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return otherwise
}
