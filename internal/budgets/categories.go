package budgets

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/inventory"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
)

func (s *service) CreateCategory(ctx context.Context, organizationID, eventID uuid.UUID, req CreateCategoryRequest) (*CategoryDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]any{"field": "name"})
	}

	var out CategoryDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		b, err := loadOpenBudget(ctx, r, organizationID, eventID)
		if err != nil {
			return err
		}
		if err := ensureNameFree(ctx, r, b.ID, name, uuid.Nil); err != nil {
			return err
		}

		position := 0
		if req.Position != nil {
			position = *req.Position
		} else {
			count, err := r.CountCategories(ctx, b.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count categories")
			}
			position = int(count)
		}

		category := &models.BudgetItemCategory{BudgetID: b.ID, Name: name, Position: position}
		if err := r.CreateCategory(ctx, category); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
		}
		out = categoryDTO(category)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) UpdateCategory(ctx context.Context, organizationID, eventID, categoryID uuid.UUID, req UpdateCategoryRequest) (*CategoryDTO, error) {
	var out CategoryDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		b, err := loadOpenBudget(ctx, r, organizationID, eventID)
		if err != nil {
			return err
		}
		category, err := loadCategory(ctx, r, b.ID, categoryID, false)
		if err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty").
					WithDetails(map[string]any{"field": "name"})
			}
			if err := ensureNameFree(ctx, r, b.ID, name, category.ID); err != nil {
				return err
			}
			category.Name = name
		}
		if req.Position != nil {
			category.Position = *req.Position
		}
		if err := r.SaveCategory(ctx, category); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
		}

		out = categoryDTO(category)
		plan, err := r.PlanItems(ctx, b.ID, &category.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan items")
		}
		actual, err := r.ActualItems(ctx, b.ID, &category.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load actual items")
		}
		for i := range plan {
			out.PlanItems = append(out.PlanItems, planItemDTO(&plan[i]))
		}
		for i := range actual {
			out.ActualItems = append(out.ActualItems, actualItemDTO(&actual[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory soft-deletes the category with all of its items and frees
// the inventory its plan items held. A category that still carries plan
// items can only go while the plan is editable.
func (s *service) DeleteCategory(ctx context.Context, organizationID, eventID, categoryID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		b, err := loadOpenBudget(ctx, r, organizationID, eventID)
		if err != nil {
			return err
		}
		category, err := loadCategory(ctx, r, b.ID, categoryID, false)
		if err != nil {
			return err
		}
		plan, err := r.PlanItems(ctx, b.ID, &category.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan items")
		}
		if len(plan) > 0 && !b.Status.PlanEditable() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "plan items are locked").
				WithDetails(map[string]any{"status": b.Status})
		}
		if err := releaseAll(ctx, inventory.NewRepository(tx), organizationID, plan); err != nil {
			return err
		}
		if err := r.DeleteItems(ctx, b.ID, &category.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category items")
		}
		if err := r.DeleteCategory(ctx, b.ID, category.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
		}
		return nil
	})
}

// loadOpenBudget locks the budget for mutation and refuses closed budgets.
func loadOpenBudget(ctx context.Context, r *Repository, organizationID, eventID uuid.UUID) (*models.Budget, error) {
	b, err := loadBudget(ctx, r, organizationID, eventID, true)
	if err != nil {
		return nil, err
	}
	if b.Status == enums.BudgetStatusClosed {
		return nil, closedError(b)
	}
	return b, nil
}

// loadCategory resolves a category of the budget. asField reports a missing
// category as a bad request field rather than a missing resource.
func loadCategory(ctx context.Context, r *Repository, budgetID, categoryID uuid.UUID, asField bool) (*models.BudgetItemCategory, error) {
	category, err := r.FindCategory(ctx, budgetID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if asField {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category not found").
					WithDetails(map[string]any{"field": "category_id"})
			}
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func ensureNameFree(ctx context.Context, r *Repository, budgetID uuid.UUID, name string, exclude uuid.UUID) error {
	taken, err := r.CategoryNameTaken(ctx, budgetID, name, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category name")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "category name already exists").
			WithDetails(map[string]any{"field": "name"})
	}
	return nil
}
