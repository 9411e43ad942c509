package budgets

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/inventory"
	"github.com/kelvin-saputra/sievo-sub000/internal/purchasing"
	"github.com/kelvin-saputra/sievo-sub000/internal/vendorservices"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
)

// resolvedSource is a catalog row a budget line prices from.
type resolvedSource struct {
	ref      models.BudgetSource
	name     string
	price    decimal.Decimal
	totalQty int
}

// resolveSource loads the referenced catalog row inside tx.
func resolveSource(ctx context.Context, tx *gorm.DB, organizationID uuid.UUID, ref SourceRef) (*resolvedSource, error) {
	if !ref.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid source type").
			WithDetails(map[string]any{"field": "source_type"})
	}
	if ref.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source id is required").
			WithDetails(map[string]any{"field": "source_id"})
	}

	id := ref.ID
	out := &resolvedSource{ref: models.BudgetSource{SourceType: ref.Type}}
	var err error
	switch ref.Type {
	case enums.BudgetSourceInventory:
		var item *models.Inventory
		if item, err = inventory.NewRepository(tx).FindByID(ctx, organizationID, id); err == nil {
			out.ref.InventoryID = &id
			out.name, out.price, out.totalQty = item.Name, item.UnitPrice, item.TotalQty
		}
	case enums.BudgetSourceVendorService:
		var svc *models.VendorService
		if svc, err = vendorservices.NewRepository(tx).FindByID(ctx, organizationID, id); err == nil {
			out.ref.VendorServiceID = &id
			out.name, out.price = svc.ServiceName, svc.Price
		}
	case enums.BudgetSourcePurchasing:
		var p *models.Purchasing
		if p, err = purchasing.NewRepository(tx).FindByID(ctx, organizationID, id); err == nil {
			out.ref.PurchasingID = &id
			out.name, out.price = p.ItemName, p.UnitPrice
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget source not found").
				WithDetails(map[string]any{"field": "source_id", "source_type": ref.Type})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load budget source")
	}
	return out, nil
}

func sameSource(current models.BudgetSource, ref SourceRef) bool {
	return current.SourceType == ref.Type && current.SourceID() == ref.ID
}
