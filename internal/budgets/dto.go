package budgets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// Actor is the member performing a budget mutation.
type Actor struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           enums.MemberRole
}

type BudgetDTO struct {
	ID          uuid.UUID          `json:"id"`
	EventID     uuid.UUID          `json:"event_id"`
	Status      enums.BudgetStatus `json:"status"`
	Notes       *string            `json:"notes,omitempty"`
	SubmittedAt *time.Time         `json:"submitted_at,omitempty"`
	ApprovedAt  *time.Time         `json:"approved_at,omitempty"`
	ApprovedBy  *uuid.UUID         `json:"approved_by,omitempty"`
	ClosedAt    *time.Time         `json:"closed_at,omitempty"`
	Categories  []CategoryDTO      `json:"categories"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type CategoryDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Position    int             `json:"position"`
	PlanItems   []PlanItemDTO   `json:"plan_items"`
	ActualItems []ActualItemDTO `json:"actual_items"`
}

type PlanItemDTO struct {
	ID         uuid.UUID              `json:"id"`
	CategoryID uuid.UUID              `json:"category_id"`
	ItemName   string                 `json:"item_name"`
	Quantity   int                    `json:"quantity"`
	UnitPrice  decimal.Decimal        `json:"unit_price"`
	Subtotal   decimal.Decimal        `json:"subtotal"`
	Status     enums.PlanItemStatus   `json:"status"`
	Notes      *string                `json:"notes,omitempty"`
	SourceType enums.BudgetSourceType `json:"source_type"`
	SourceID   uuid.UUID              `json:"source_id"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

type ActualItemDTO struct {
	ID         uuid.UUID              `json:"id"`
	CategoryID uuid.UUID              `json:"category_id"`
	ItemName   string                 `json:"item_name"`
	Quantity   int                    `json:"quantity"`
	UnitPrice  decimal.Decimal        `json:"unit_price"`
	Subtotal   decimal.Decimal        `json:"subtotal"`
	Status     enums.ActualItemStatus `json:"status"`
	Notes      *string                `json:"notes,omitempty"`
	SourceType enums.BudgetSourceType `json:"source_type"`
	SourceID   uuid.UUID              `json:"source_id"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// UpdateBudgetRequest is the body of PUT /events/{eventId}/budget.
type UpdateBudgetRequest struct {
	Notes *string `json:"notes"`
}

// ChangeStatusRequest is the body of POST /events/{eventId}/budget/status.
type ChangeStatusRequest struct {
	Status enums.BudgetStatus `json:"status" validate:"required"`
}

type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Position *int   `json:"position,omitempty" validate:"omitempty,gte=0,lte=10000"`
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Position *int    `json:"position,omitempty" validate:"omitempty,gte=0,lte=10000"`
}

// SourceRef points a budget line at the catalog row it is priced from.
type SourceRef struct {
	Type enums.BudgetSourceType `json:"source_type" validate:"required"`
	ID   uuid.UUID              `json:"source_id" validate:"required"`
}

type CreatePlanItemRequest struct {
	CategoryID uuid.UUID        `json:"category_id" validate:"required"`
	Source     SourceRef        `json:"source"`
	ItemName   *string          `json:"item_name,omitempty" validate:"omitempty,min=1,max=200"`
	Quantity   int              `json:"quantity" validate:"gt=0,lte=1000000"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
}

type UpdatePlanItemRequest struct {
	CategoryID *uuid.UUID            `json:"category_id,omitempty"`
	Source     *SourceRef            `json:"source,omitempty"`
	ItemName   *string               `json:"item_name,omitempty" validate:"omitempty,min=1,max=200"`
	Quantity   *int                  `json:"quantity,omitempty" validate:"omitempty,gt=0,lte=1000000"`
	UnitPrice  *decimal.Decimal      `json:"unit_price,omitempty"`
	Status     *enums.PlanItemStatus `json:"status,omitempty"`
	Notes      *string               `json:"notes,omitempty"`
}

type CreateActualItemRequest struct {
	CategoryID uuid.UUID               `json:"category_id" validate:"required"`
	Source     SourceRef               `json:"source"`
	ItemName   *string                 `json:"item_name,omitempty" validate:"omitempty,min=1,max=200"`
	Quantity   int                     `json:"quantity" validate:"gt=0,lte=1000000"`
	UnitPrice  *decimal.Decimal        `json:"unit_price,omitempty"`
	Status     *enums.ActualItemStatus `json:"status,omitempty"`
	Notes      *string                 `json:"notes,omitempty"`
}

type UpdateActualItemRequest struct {
	CategoryID *uuid.UUID              `json:"category_id,omitempty"`
	Source     *SourceRef              `json:"source,omitempty"`
	ItemName   *string                 `json:"item_name,omitempty" validate:"omitempty,min=1,max=200"`
	Quantity   *int                    `json:"quantity,omitempty" validate:"omitempty,gt=0,lte=1000000"`
	UnitPrice  *decimal.Decimal        `json:"unit_price,omitempty"`
	Status     *enums.ActualItemStatus `json:"status,omitempty"`
	Notes      *string                 `json:"notes,omitempty"`
}

// CategorySummary compares planned and actual spend of one category.
type CategorySummary struct {
	CategoryID      uuid.UUID       `json:"category_id"`
	Name            string          `json:"name"`
	PlannedApproved decimal.Decimal `json:"planned_approved"`
	PlannedPending  decimal.Decimal `json:"planned_pending"`
	Planned         decimal.Decimal `json:"planned"`
	Actual          decimal.Decimal `json:"actual"`
	Variance        decimal.Decimal `json:"variance"`
}

// Summary is the planned vs actual roll-up of a budget. Rejected plan items
// and cancelled actual items are excluded. Variance is planned minus actual.
type Summary struct {
	BudgetID        uuid.UUID          `json:"budget_id"`
	EventID         uuid.UUID          `json:"event_id"`
	Status          enums.BudgetStatus `json:"status"`
	Categories      []CategorySummary  `json:"categories"`
	PlannedApproved decimal.Decimal    `json:"planned_approved"`
	PlannedPending  decimal.Decimal    `json:"planned_pending"`
	PlannedTotal    decimal.Decimal    `json:"planned_total"`
	ActualTotal     decimal.Decimal    `json:"actual_total"`
	ActualPaid      decimal.Decimal    `json:"actual_paid"`
	Variance        decimal.Decimal    `json:"variance"`
}

func planItemDTO(m *models.BudgetPlanItem) PlanItemDTO {
	return PlanItemDTO{
		ID:         m.ID,
		CategoryID: m.CategoryID,
		ItemName:   m.ItemName,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		Subtotal:   m.Subtotal(),
		Status:     m.Status,
		Notes:      m.Notes,
		SourceType: m.SourceType,
		SourceID:   m.SourceID(),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func actualItemDTO(m *models.ActualBudgetItem) ActualItemDTO {
	return ActualItemDTO{
		ID:         m.ID,
		CategoryID: m.CategoryID,
		ItemName:   m.ItemName,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		Subtotal:   m.Subtotal(),
		Status:     m.Status,
		Notes:      m.Notes,
		SourceType: m.SourceType,
		SourceID:   m.SourceID(),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func categoryDTO(m *models.BudgetItemCategory) CategoryDTO {
	return CategoryDTO{
		ID:          m.ID,
		Name:        m.Name,
		Position:    m.Position,
		PlanItems:   []PlanItemDTO{},
		ActualItems: []ActualItemDTO{},
	}
}

// assemble nests items under their categories in category order.
func assemble(b *models.Budget, categories []models.BudgetItemCategory, plan []models.BudgetPlanItem, actual []models.ActualBudgetItem) *BudgetDTO {
	out := &BudgetDTO{
		ID:          b.ID,
		EventID:     b.EventID,
		Status:      b.Status,
		Notes:       b.Notes,
		SubmittedAt: b.SubmittedAt,
		ApprovedAt:  b.ApprovedAt,
		ApprovedBy:  b.ApprovedBy,
		ClosedAt:    b.ClosedAt,
		Categories:  make([]CategoryDTO, 0, len(categories)),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	index := make(map[uuid.UUID]int, len(categories))
	for i := range categories {
		index[categories[i].ID] = i
		out.Categories = append(out.Categories, categoryDTO(&categories[i]))
	}
	for i := range plan {
		if pos, ok := index[plan[i].CategoryID]; ok {
			out.Categories[pos].PlanItems = append(out.Categories[pos].PlanItems, planItemDTO(&plan[i]))
		}
	}
	for i := range actual {
		if pos, ok := index[actual[i].CategoryID]; ok {
			out.Categories[pos].ActualItems = append(out.Categories[pos].ActualItems, actualItemDTO(&actual[i]))
		}
	}
	return out
}
