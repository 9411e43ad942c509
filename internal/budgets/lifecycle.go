package budgets

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/inventory"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
)

// OpenForEvent creates the draft budget of a new event inside tx.
func OpenForEvent(ctx context.Context, tx *gorm.DB, organizationID, eventID uuid.UUID) (*models.Budget, error) {
	b := &models.Budget{
		OrganizationID: organizationID,
		EventID:        eventID,
		Status:         enums.BudgetStatusDraft,
	}
	if err := NewRepository(tx).Create(ctx, b); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create budget")
	}
	return b, nil
}

// SettleForEvent frees every reservation the event's budget holds and closes
// it. With purge the categories and items are soft-deleted too. It must run
// before the event row itself is soft-deleted.
func SettleForEvent(ctx context.Context, tx *gorm.DB, organizationID, eventID uuid.UUID, purge bool) error {
	r := NewRepository(tx)
	b, err := r.FindByEvent(ctx, organizationID, eventID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load budget")
	}

	if b.Status != enums.BudgetStatusClosed {
		items, err := r.PlanItems(ctx, b.ID, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan items")
		}
		if err := releaseAll(ctx, inventory.NewRepository(tx), organizationID, items); err != nil {
			return err
		}
		from := b.Status
		now := time.Now().UTC()
		b.Status, b.ClosedAt = enums.BudgetStatusClosed, &now
		if err := r.Transition(ctx, b, from); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close budget")
		}
	}

	if !purge {
		return nil
	}
	if err := r.DeleteItems(ctx, b.ID, nil); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete budget items")
	}
	if err := r.DeleteCategories(ctx, b.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete budget categories")
	}
	return nil
}
