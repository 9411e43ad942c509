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

func (s *service) CreatePlanItem(ctx context.Context, organizationID, eventID uuid.UUID, req CreatePlanItemRequest) (*PlanItemDTO, error) {
	if req.Quantity <= 0 {
		return nil, quantityError()
	}

	var out PlanItemDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		b, err := loadPlanBudget(ctx, r, organizationID, eventID)
		if err != nil {
			return err
		}
		if _, err := loadCategory(ctx, r, b.ID, req.CategoryID, true); err != nil {
			return err
		}
		src, err := resolveSource(ctx, tx, organizationID, req.Source)
		if err != nil {
			return err
		}
		price, err := priceOrDefault(req.UnitPrice, src.price)
		if err != nil {
			return err
		}

		item := &models.BudgetPlanItem{
			BudgetID:     b.ID,
			CategoryID:   req.CategoryID,
			ItemName:     nameOrDefault(req.ItemName, src.name),
			Quantity:     req.Quantity,
			UnitPrice:    price,
			Status:       enums.PlanItemStatusPending,
			Notes:        req.Notes,
			BudgetSource: src.ref,
		}
		if err := reconcile(ctx, inventory.NewRepository(tx), organizationID, hold{}, holdOf(item)); err != nil {
			return err
		}
		if err := r.CreatePlanItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create plan item")
		}
		out = planItemDTO(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePlanItem applies the changes and moves the item's inventory
// reservation along: quantity deltas, source swaps, rejection and re-approval.
func (s *service) UpdatePlanItem(ctx context.Context, organizationID, eventID, itemID uuid.UUID, req UpdatePlanItemRequest) (*PlanItemDTO, error) {
	if req.Quantity != nil && *req.Quantity <= 0 {
		return nil, quantityError()
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plan item status").
			WithDetails(map[string]any{"field": "status"})
	}

	var out PlanItemDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		b, err := loadPlanBudget(ctx, r, organizationID, eventID)
		if err != nil {
			return err
		}
		item, err := r.FindPlanItem(ctx, b.ID, itemID)
		if err != nil {
			return itemLoadError(err, "plan item")
		}
		before := holdOf(item)

		if req.CategoryID != nil && *req.CategoryID != item.CategoryID {
			if _, err := loadCategory(ctx, r, b.ID, *req.CategoryID, true); err != nil {
				return err
			}
			item.CategoryID = *req.CategoryID
		}
		if req.Source != nil && !sameSource(item.BudgetSource, *req.Source) {
			src, err := resolveSource(ctx, tx, organizationID, *req.Source)
			if err != nil {
				return err
			}
			item.BudgetSource = src.ref
			item.ItemName = src.name
			item.UnitPrice = src.price.Round(2)
		}
		if req.ItemName != nil {
			item.ItemName = nameOrDefault(req.ItemName, item.ItemName)
		}
		if req.UnitPrice != nil {
			if item.UnitPrice, err = priceOrDefault(req.UnitPrice, item.UnitPrice); err != nil {
				return err
			}
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.Status != nil {
			item.Status = *req.Status
		}
		if req.Notes != nil {
			item.Notes = req.Notes
		}

		if err := reconcile(ctx, inventory.NewRepository(tx), organizationID, before, holdOf(item)); err != nil {
			return err
		}
		if err := r.SavePlanItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update plan item")
		}
		out = planItemDTO(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) DeletePlanItem(ctx context.Context, organizationID, eventID, itemID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		b, err := loadPlanBudget(ctx, r, organizationID, eventID)
		if err != nil {
			return err
		}
		item, err := r.FindPlanItem(ctx, b.ID, itemID)
		if err != nil {
			return itemLoadError(err, "plan item")
		}
		if err := reconcile(ctx, inventory.NewRepository(tx), organizationID, holdOf(item), hold{}); err != nil {
			return err
		}
		if err := r.DeletePlanItem(ctx, b.ID, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete plan item")
		}
		return nil
	})
}

func loadPlanBudget(ctx context.Context, r *Repository, organizationID, eventID uuid.UUID) (*models.Budget, error) {
	b, err := loadBudget(ctx, r, organizationID, eventID, true)
	if err != nil {
		return nil, err
	}
	if !b.Status.PlanEditable() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "plan items are locked").
			WithDetails(map[string]any{"status": b.Status})
	}
	return b, nil
}

func itemLoadError(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, what+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+what)
}

func quantityError() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be > 0").
		WithDetails(map[string]any{"field": "quantity"})
}

func nameOrDefault(name *string, fallback string) string {
	if name == nil {
		return fallback
	}
	if trimmed := strings.TrimSpace(*name); trimmed != "" {
		return trimmed
	}
	return fallback
}
