package budgets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
)

func (s *service) CreateActualItem(ctx context.Context, organizationID, eventID uuid.UUID, req CreateActualItemRequest) (*ActualItemDTO, error) {
	if req.Quantity <= 0 {
		return nil, quantityError()
	}
	status := enums.ActualItemStatusPending
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, actualStatusError()
		}
		status = *req.Status
	}

	var out ActualItemDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		b, err := loadActualBudget(ctx, r, organizationID, eventID)
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
		if err := checkActualQuantity(src, req.Quantity); err != nil {
			return err
		}
		price, err := priceOrDefault(req.UnitPrice, src.price)
		if err != nil {
			return err
		}

		item := &models.ActualBudgetItem{
			BudgetID:     b.ID,
			CategoryID:   req.CategoryID,
			ItemName:     nameOrDefault(req.ItemName, src.name),
			Quantity:     req.Quantity,
			UnitPrice:    price,
			Status:       status,
			Notes:        req.Notes,
			BudgetSource: src.ref,
		}
		if err := r.CreateActualItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create actual item")
		}
		out = actualItemDTO(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) UpdateActualItem(ctx context.Context, organizationID, eventID, itemID uuid.UUID, req UpdateActualItemRequest) (*ActualItemDTO, error) {
	if req.Quantity != nil && *req.Quantity <= 0 {
		return nil, quantityError()
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, actualStatusError()
	}

	var out ActualItemDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		b, err := loadActualBudget(ctx, r, organizationID, eventID)
		if err != nil {
			return err
		}
		item, err := r.FindActualItem(ctx, b.ID, itemID)
		if err != nil {
			return itemLoadError(err, "actual item")
		}

		if req.CategoryID != nil && *req.CategoryID != item.CategoryID {
			if _, err := loadCategory(ctx, r, b.ID, *req.CategoryID, true); err != nil {
				return err
			}
			item.CategoryID = *req.CategoryID
		}
		var src *resolvedSource
		if req.Source != nil && !sameSource(item.BudgetSource, *req.Source) {
			if src, err = resolveSource(ctx, tx, organizationID, *req.Source); err != nil {
				return err
			}
			item.BudgetSource = src.ref
			item.ItemName = src.name
			item.UnitPrice = src.price.Round(2)
		} else if req.Quantity != nil && item.SourceType == enums.BudgetSourceInventory {
			// a source deleted since the line was booked no longer caps it
			src, err = resolveSource(ctx, tx, organizationID, SourceRef{Type: item.SourceType, ID: item.SourceID()})
			if err != nil && !pkgerrors.Is(err, pkgerrors.CodeValidation) {
				return err
			}
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
		if src != nil {
			if err := checkActualQuantity(src, item.Quantity); err != nil {
				return err
			}
		}
		if req.Status != nil {
			item.Status = *req.Status
		}
		if req.Notes != nil {
			item.Notes = req.Notes
		}

		if err := r.SaveActualItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update actual item")
		}
		out = actualItemDTO(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) DeleteActualItem(ctx context.Context, organizationID, eventID, itemID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		b, err := loadActualBudget(ctx, r, organizationID, eventID)
		if err != nil {
			return err
		}
		if err := r.DeleteActualItem(ctx, b.ID, itemID); err != nil {
			return itemLoadError(err, "actual item")
		}
		return nil
	})
}

func loadActualBudget(ctx context.Context, r *Repository, organizationID, eventID uuid.UUID) (*models.Budget, error) {
	b, err := loadBudget(ctx, r, organizationID, eventID, true)
	if err != nil {
		return nil, err
	}
	if !b.Status.ActualEditable() {
		return nil, closedError(b)
	}
	return b, nil
}

// checkActualQuantity caps inventory-sourced expenses at what the organization owns.
func checkActualQuantity(src *resolvedSource, qty int) error {
	if src.ref.SourceType != enums.BudgetSourceInventory || qty <= src.totalQty {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds owned inventory").
		WithDetails(map[string]any{"field": "quantity", "total_qty": src.totalQty})
}

func actualStatusError() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid actual item status").
		WithDetails(map[string]any{"field": "status"})
}
