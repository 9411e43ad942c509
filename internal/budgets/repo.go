package budgets

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/repo"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// ErrStaleStatus is returned when the budget status moved underneath a transition.
var ErrStaleStatus = errors.New("budget status changed concurrently")

// Repository persists budgets, their categories and their plan and actual items.
// Categories and items are addressed through the budget id, which callers
// obtain from a tenant-scoped budget lookup.
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

func (r *Repository) Create(ctx context.Context, b *models.Budget) error {
	return r.DB(ctx).Create(b).Error
}

// FindByEvent loads the budget of a live event. With lock the budget row is
// held until the surrounding transaction ends.
func (r *Repository) FindByEvent(ctx context.Context, organizationID, eventID uuid.UUID, lock bool) (*models.Budget, error) {
	q := r.DB(ctx).
		Joins("JOIN events ON events.id = budgets.event_id AND events.deleted_at IS NULL").
		Where("budgets.organization_id = ? AND budgets.event_id = ?", organizationID, eventID)
	if lock {
		q = repo.ForUpdate(q, "budgets")
	}
	var b models.Budget
	if err := q.First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) Save(ctx context.Context, b *models.Budget) error {
	return r.DB(ctx).Save(b).Error
}

// Transition writes the status and stamps of b only if the stored status is still from.
func (r *Repository) Transition(ctx context.Context, b *models.Budget, from enums.BudgetStatus) error {
	res := r.DB(ctx).Model(&models.Budget{}).
		Where("id = ? AND status = ?", b.ID, from).
		Updates(map[string]any{
			"status":       b.Status,
			"submitted_at": b.SubmittedAt,
			"approved_at":  b.ApprovedAt,
			"approved_by":  b.ApprovedBy,
			"closed_at":    b.ClosedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// Event loads a live event of the organization.
func (r *Repository) Event(ctx context.Context, organizationID, eventID uuid.UUID) (*models.Event, error) {
	var e models.Event
	if err := r.Tenant(ctx, organizationID).Where("id = ?", eventID).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) Categories(ctx context.Context, budgetID uuid.UUID) ([]models.BudgetItemCategory, error) {
	var rows []models.BudgetItemCategory
	err := r.DB(ctx).
		Where("budget_id = ?", budgetID).
		Order("position ASC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindCategory(ctx context.Context, budgetID, id uuid.UUID) (*models.BudgetItemCategory, error) {
	var c models.BudgetItemCategory
	if err := r.DB(ctx).Where("budget_id = ? AND id = ?", budgetID, id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CategoryNameTaken reports whether another live category of the budget uses
// name, compared case-insensitively.
func (r *Repository) CategoryNameTaken(ctx context.Context, budgetID uuid.UUID, name string, exclude uuid.UUID) (bool, error) {
	var count int64
	q := r.DB(ctx).Model(&models.BudgetItemCategory{}).
		Where("budget_id = ? AND LOWER(name) = ?", budgetID, strings.ToLower(name))
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CountCategories(ctx context.Context, budgetID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.BudgetItemCategory{}).Where("budget_id = ?", budgetID).Count(&count).Error
	return count, err
}

func (r *Repository) CreateCategory(ctx context.Context, c *models.BudgetItemCategory) error {
	return r.DB(ctx).Create(c).Error
}

func (r *Repository) SaveCategory(ctx context.Context, c *models.BudgetItemCategory) error {
	return r.DB(ctx).Save(c).Error
}

func (r *Repository) DeleteCategory(ctx context.Context, budgetID, id uuid.UUID) error {
	res := r.DB(ctx).Where("budget_id = ? AND id = ?", budgetID, id).Delete(&models.BudgetItemCategory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PlanItems lists live plan items of the budget, optionally of one category.
func (r *Repository) PlanItems(ctx context.Context, budgetID uuid.UUID, categoryID *uuid.UUID) ([]models.BudgetPlanItem, error) {
	q := r.DB(ctx).Where("budget_id = ?", budgetID)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	var rows []models.BudgetPlanItem
	err := q.Order("created_at ASC").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindPlanItem(ctx context.Context, budgetID, id uuid.UUID) (*models.BudgetPlanItem, error) {
	var item models.BudgetPlanItem
	if err := r.DB(ctx).Where("budget_id = ? AND id = ?", budgetID, id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) CreatePlanItem(ctx context.Context, item *models.BudgetPlanItem) error {
	return r.DB(ctx).Create(item).Error
}

func (r *Repository) SavePlanItem(ctx context.Context, item *models.BudgetPlanItem) error {
	return r.DB(ctx).Save(item).Error
}

func (r *Repository) DeletePlanItem(ctx context.Context, budgetID, id uuid.UUID) error {
	res := r.DB(ctx).Where("budget_id = ? AND id = ?", budgetID, id).Delete(&models.BudgetPlanItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ActualItems lists live actual items of the budget, optionally of one category.
func (r *Repository) ActualItems(ctx context.Context, budgetID uuid.UUID, categoryID *uuid.UUID) ([]models.ActualBudgetItem, error) {
	q := r.DB(ctx).Where("budget_id = ?", budgetID)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	var rows []models.ActualBudgetItem
	err := q.Order("created_at ASC").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindActualItem(ctx context.Context, budgetID, id uuid.UUID) (*models.ActualBudgetItem, error) {
	var item models.ActualBudgetItem
	if err := r.DB(ctx).Where("budget_id = ? AND id = ?", budgetID, id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) CreateActualItem(ctx context.Context, item *models.ActualBudgetItem) error {
	return r.DB(ctx).Create(item).Error
}

func (r *Repository) SaveActualItem(ctx context.Context, item *models.ActualBudgetItem) error {
	return r.DB(ctx).Save(item).Error
}

func (r *Repository) DeleteActualItem(ctx context.Context, budgetID, id uuid.UUID) error {
	res := r.DB(ctx).Where("budget_id = ? AND id = ?", budgetID, id).Delete(&models.ActualBudgetItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteItems soft-deletes plan and actual items of the budget, limited to
// one category when categoryID is set.
func (r *Repository) DeleteItems(ctx context.Context, budgetID uuid.UUID, categoryID *uuid.UUID) error {
	scope := func(q *gorm.DB) *gorm.DB {
		q = q.Where("budget_id = ?", budgetID)
		if categoryID != nil {
			q = q.Where("category_id = ?", *categoryID)
		}
		return q
	}
	if err := r.DB(ctx).Scopes(scope).Delete(&models.BudgetPlanItem{}).Error; err != nil {
		return err
	}
	return r.DB(ctx).Scopes(scope).Delete(&models.ActualBudgetItem{}).Error
}

// DeleteCategories soft-deletes every category of the budget.
func (r *Repository) DeleteCategories(ctx context.Context, budgetID uuid.UUID) error {
	return r.DB(ctx).Where("budget_id = ?", budgetID).Delete(&models.BudgetItemCategory{}).Error
}
