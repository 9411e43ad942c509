package budgets

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/inventory"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
)

type reserver interface {
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Inventory, error)
	Reserve(ctx context.Context, organizationID, id uuid.UUID, qty int) error
	Release(ctx context.Context, organizationID, id uuid.UUID, qty int) error
}

// hold is the inventory quantity a plan item keeps reserved.
type hold struct {
	inventoryID uuid.UUID
	qty         int
}

// holdOf reports the reservation a live plan item holds under an open budget.
func holdOf(item *models.BudgetPlanItem) hold {
	if item == nil || item.SourceType != enums.BudgetSourceInventory || item.InventoryID == nil {
		return hold{}
	}
	if !item.Status.HoldsReservation() {
		return hold{}
	}
	return hold{inventoryID: *item.InventoryID, qty: item.Quantity}
}

// reconcile moves inventory reservations from before to after. When both
// point at the same inventory only the delta is applied.
func reconcile(ctx context.Context, inv reserver, organizationID uuid.UUID, before, after hold) error {
	if before.inventoryID != uuid.Nil && before.inventoryID == after.inventoryID {
		delta := after.qty - before.qty
		switch {
		case delta > 0:
			return reserve(ctx, inv, organizationID, after.inventoryID, delta)
		case delta < 0:
			return release(ctx, inv, organizationID, before.inventoryID, -delta)
		}
		return nil
	}
	if before.inventoryID != uuid.Nil {
		if err := release(ctx, inv, organizationID, before.inventoryID, before.qty); err != nil {
			return err
		}
	}
	if after.inventoryID != uuid.Nil {
		return reserve(ctx, inv, organizationID, after.inventoryID, after.qty)
	}
	return nil
}

func reserve(ctx context.Context, inv reserver, organizationID, inventoryID uuid.UUID, qty int) error {
	err := inv.Reserve(ctx, organizationID, inventoryID, qty)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, inventory.ErrInsufficientQuantity):
		details := map[string]any{"inventory_id": inventoryID, "requested": qty}
		if item, findErr := inv.FindByID(ctx, organizationID, inventoryID); findErr == nil {
			details["available"] = item.AvailableQty()
			details["is_available"] = item.IsAvailable
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient inventory quantity").WithDetails(details)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeValidation, "inventory not found").
			WithDetails(map[string]any{"field": "source_id", "inventory_id": inventoryID})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve inventory")
}

func release(ctx context.Context, inv reserver, organizationID, inventoryID uuid.UUID, qty int) error {
	if err := inv.Release(ctx, organizationID, inventoryID, qty); err != nil {
		if errors.Is(err, inventory.ErrReservationUnderflow) || errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "release inventory").
				WithDetails(map[string]any{"inventory_id": inventoryID, "qty": qty})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release inventory")
	}
	return nil
}

// releaseAll frees every reservation held by the given plan items.
func releaseAll(ctx context.Context, inv reserver, organizationID uuid.UUID, items []models.BudgetPlanItem) error {
	for i := range items {
		h := holdOf(&items[i])
		if h.inventoryID == uuid.Nil {
			continue
		}
		if err := release(ctx, inv, organizationID, h.inventoryID, h.qty); err != nil {
			return err
		}
	}
	return nil
}
