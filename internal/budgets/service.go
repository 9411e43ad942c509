package budgets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/inventory"
	"github.com/kelvin-saputra/sievo-sub000/internal/notifications"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages event budgets: categories, planned and actual lines,
// the approval lifecycle and the inventory reservations plan lines hold.
type Service interface {
	Get(ctx context.Context, organizationID, eventID uuid.UUID) (*BudgetDTO, error)
	UpdateNotes(ctx context.Context, organizationID, eventID uuid.UUID, req UpdateBudgetRequest) (*BudgetDTO, error)
	ChangeStatus(ctx context.Context, actor Actor, eventID uuid.UUID, req ChangeStatusRequest) (*BudgetDTO, error)
	Summary(ctx context.Context, organizationID, eventID uuid.UUID) (*Summary, error)

	CreateCategory(ctx context.Context, organizationID, eventID uuid.UUID, req CreateCategoryRequest) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, organizationID, eventID, categoryID uuid.UUID, req UpdateCategoryRequest) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, organizationID, eventID, categoryID uuid.UUID) error

	CreatePlanItem(ctx context.Context, organizationID, eventID uuid.UUID, req CreatePlanItemRequest) (*PlanItemDTO, error)
	UpdatePlanItem(ctx context.Context, organizationID, eventID, itemID uuid.UUID, req UpdatePlanItemRequest) (*PlanItemDTO, error)
	DeletePlanItem(ctx context.Context, organizationID, eventID, itemID uuid.UUID) error

	CreateActualItem(ctx context.Context, organizationID, eventID uuid.UUID, req CreateActualItemRequest) (*ActualItemDTO, error)
	UpdateActualItem(ctx context.Context, organizationID, eventID, itemID uuid.UUID, req UpdateActualItemRequest) (*ActualItemDTO, error)
	DeleteActualItem(ctx context.Context, organizationID, eventID, itemID uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
	now  func() time.Time
}

func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("budget repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) Get(ctx context.Context, organizationID, eventID uuid.UUID) (*BudgetDTO, error) {
	b, err := loadBudget(ctx, s.repo, organizationID, eventID, false)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, s.repo, b)
}

func (s *service) UpdateNotes(ctx context.Context, organizationID, eventID uuid.UUID, req UpdateBudgetRequest) (*BudgetDTO, error) {
	var out *BudgetDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		b, err := loadBudget(ctx, r, organizationID, eventID, true)
		if err != nil {
			return err
		}
		if b.Status == enums.BudgetStatusClosed {
			return closedError(b)
		}
		b.Notes = req.Notes
		if err := r.Save(ctx, b); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update budget")
		}
		out, err = s.detail(ctx, r, b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) ChangeStatus(ctx context.Context, actor Actor, eventID uuid.UUID, req ChangeStatusRequest) (*BudgetDTO, error) {
	next := req.Status
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid budget status").
			WithDetails(map[string]any{"field": "status"})
	}
	if (next == enums.BudgetStatusApproved || next == enums.BudgetStatusClosed) && !actor.Role.CanApprove() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only owners and executives may approve or close budgets")
	}

	var out *BudgetDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		b, err := loadBudget(ctx, r, actor.OrganizationID, eventID, true)
		if err != nil {
			return err
		}
		from := b.Status
		if !from.CanTransitionTo(next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "budget status transition not allowed").
				WithDetails(map[string]any{"from": from, "to": next})
		}

		now := s.now()
		switch next {
		case enums.BudgetStatusSubmitted:
			b.SubmittedAt = &now
		case enums.BudgetStatusDraft:
			b.SubmittedAt = nil
		case enums.BudgetStatusApproved:
			approver := actor.UserID
			b.ApprovedAt, b.ApprovedBy = &now, &approver
		case enums.BudgetStatusClosed:
			items, err := r.PlanItems(ctx, b.ID, nil)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan items")
			}
			if err := releaseAll(ctx, inventory.NewRepository(tx), actor.OrganizationID, items); err != nil {
				return err
			}
			b.ClosedAt = &now
		}
		b.Status = next

		if err := r.Transition(ctx, b, from); err != nil {
			if errors.Is(err, ErrStaleStatus) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "budget status changed, reload and retry")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update budget status")
		}
		if err := s.notifyStatus(ctx, tx, r, actor, b); err != nil {
			return err
		}
		out, err = s.detail(ctx, r, b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Summary(ctx context.Context, organizationID, eventID uuid.UUID) (*Summary, error) {
	b, err := loadBudget(ctx, s.repo, organizationID, eventID, false)
	if err != nil {
		return nil, err
	}
	categories, plan, actual, err := s.contents(ctx, s.repo, b.ID)
	if err != nil {
		return nil, err
	}
	return summarize(b, categories, plan, actual), nil
}

// notifyStatus tells the event manager about a budget status change made by someone else.
func (s *service) notifyStatus(ctx context.Context, tx *gorm.DB, r *Repository, actor Actor, b *models.Budget) error {
	event, err := r.Event(ctx, b.OrganizationID, b.EventID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	if event.ManagerID == nil || *event.ManagerID == actor.UserID {
		return nil
	}
	return notifications.Send(ctx, notifications.NewRepository(tx), notifications.Message{
		OrganizationID: b.OrganizationID,
		UserID:         *event.ManagerID,
		Type:           enums.NotificationTypeBudgetStatus,
		Title:          fmt.Sprintf("Budget %s", b.Status),
		Body:           fmt.Sprintf("The budget for %s is now %s.", event.Name, b.Status),
		Link:           fmt.Sprintf("/events/%s/budget", b.EventID),
	})
}

func (s *service) detail(ctx context.Context, r *Repository, b *models.Budget) (*BudgetDTO, error) {
	categories, plan, actual, err := s.contents(ctx, r, b.ID)
	if err != nil {
		return nil, err
	}
	return assemble(b, categories, plan, actual), nil
}

func (s *service) contents(ctx context.Context, r *Repository, budgetID uuid.UUID) ([]models.BudgetItemCategory, []models.BudgetPlanItem, []models.ActualBudgetItem, error) {
	categories, err := r.Categories(ctx, budgetID)
	if err != nil {
		return nil, nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load budget categories")
	}
	plan, err := r.PlanItems(ctx, budgetID, nil)
	if err != nil {
		return nil, nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan items")
	}
	actual, err := r.ActualItems(ctx, budgetID, nil)
	if err != nil {
		return nil, nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load actual items")
	}
	return categories, plan, actual, nil
}

func summarize(b *models.Budget, categories []models.BudgetItemCategory, plan []models.BudgetPlanItem, actual []models.ActualBudgetItem) *Summary {
	out := &Summary{
		BudgetID:   b.ID,
		EventID:    b.EventID,
		Status:     b.Status,
		Categories: make([]CategorySummary, 0, len(categories)),
	}
	index := make(map[uuid.UUID]int, len(categories))
	for i, c := range categories {
		index[c.ID] = i
		out.Categories = append(out.Categories, CategorySummary{CategoryID: c.ID, Name: c.Name})
	}

	for i := range plan {
		pos, ok := index[plan[i].CategoryID]
		if !ok {
			continue
		}
		line := &out.Categories[pos]
		subtotal := plan[i].Subtotal()
		switch plan[i].Status {
		case enums.PlanItemStatusApproved:
			line.PlannedApproved = line.PlannedApproved.Add(subtotal)
			out.PlannedApproved = out.PlannedApproved.Add(subtotal)
		case enums.PlanItemStatusPending:
			line.PlannedPending = line.PlannedPending.Add(subtotal)
			out.PlannedPending = out.PlannedPending.Add(subtotal)
		}
	}
	for i := range actual {
		pos, ok := index[actual[i].CategoryID]
		if !ok || actual[i].Status == enums.ActualItemStatusCancelled {
			continue
		}
		subtotal := actual[i].Subtotal()
		out.Categories[pos].Actual = out.Categories[pos].Actual.Add(subtotal)
		out.ActualTotal = out.ActualTotal.Add(subtotal)
		if actual[i].Status == enums.ActualItemStatusPaid {
			out.ActualPaid = out.ActualPaid.Add(subtotal)
		}
	}

	for i := range out.Categories {
		line := &out.Categories[i]
		line.Planned = line.PlannedApproved.Add(line.PlannedPending)
		line.Variance = line.Planned.Sub(line.Actual)
	}
	out.PlannedTotal = out.PlannedApproved.Add(out.PlannedPending)
	out.Variance = out.PlannedTotal.Sub(out.ActualTotal)
	return out
}

func loadBudget(ctx context.Context, r *Repository, organizationID, eventID uuid.UUID, lock bool) (*models.Budget, error) {
	b, err := r.FindByEvent(ctx, organizationID, eventID, lock)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "budget not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load budget")
	}
	return b, nil
}

func closedError(b *models.Budget) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "budget is closed").
		WithDetails(map[string]any{"status": b.Status})
}

func priceOrDefault(price *decimal.Decimal, fallback decimal.Decimal) (decimal.Decimal, error) {
	if price == nil {
		return fallback.Round(2), nil
	}
	if price.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be >= 0").
			WithDetails(map[string]any{"field": "unit_price"})
	}
	return price.Round(2), nil
}
