package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// Budget is the single planned-vs-actual ledger of an event.
type Budget struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID          `gorm:"column:organization_id;type:uuid;not null;index"`
	EventID        uuid.UUID          `gorm:"column:event_id;type:uuid;not null;uniqueIndex"`
	Status         enums.BudgetStatus `gorm:"column:status;type:text;not null"`
	Notes          *string            `gorm:"column:notes"`
	SubmittedAt    *time.Time         `gorm:"column:submitted_at"`
	ApprovedAt     *time.Time         `gorm:"column:approved_at"`
	ApprovedBy     *uuid.UUID         `gorm:"column:approved_by;type:uuid"`
	ClosedAt       *time.Time         `gorm:"column:closed_at"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Budget) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

// BudgetItemCategory groups budget lines (catering, venue, sound...).
type BudgetItemCategory struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	BudgetID  uuid.UUID      `gorm:"column:budget_id;type:uuid;not null;index"`
	Name      string         `gorm:"column:name;not null"`
	Position  int            `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (c *BudgetItemCategory) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// BudgetSource holds the polymorphic reference shared by plan and actual items.
// Exactly one of the ids is set and it matches SourceType.
type BudgetSource struct {
	SourceType      enums.BudgetSourceType `gorm:"column:source_type;type:text;not null"`
	InventoryID     *uuid.UUID             `gorm:"column:inventory_id;type:uuid;index"`
	VendorServiceID *uuid.UUID             `gorm:"column:vendor_service_id;type:uuid;index"`
	PurchasingID    *uuid.UUID             `gorm:"column:purchasing_id;type:uuid;index"`
}

// SourceID returns the id matching SourceType, or uuid.Nil.
func (s BudgetSource) SourceID() uuid.UUID {
	var id *uuid.UUID
	switch s.SourceType {
	case enums.BudgetSourceInventory:
		id = s.InventoryID
	case enums.BudgetSourceVendorService:
		id = s.VendorServiceID
	case enums.BudgetSourcePurchasing:
		id = s.PurchasingID
	}
	if id == nil {
		return uuid.Nil
	}
	return *id
}

// BudgetPlanItem is a planned budget line.
type BudgetPlanItem struct {
	ID         uuid.UUID            `gorm:"type:uuid;primaryKey"`
	BudgetID   uuid.UUID            `gorm:"column:budget_id;type:uuid;not null;index"`
	CategoryID uuid.UUID            `gorm:"column:category_id;type:uuid;not null;index"`
	ItemName   string               `gorm:"column:item_name;not null"`
	Quantity   int                  `gorm:"column:quantity;not null"`
	UnitPrice  decimal.Decimal      `gorm:"column:unit_price;type:numeric(14,2);not null"`
	Status     enums.PlanItemStatus `gorm:"column:status;type:text;not null"`
	Notes      *string              `gorm:"column:notes"`
	BudgetSource
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (i *BudgetPlanItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// Subtotal is quantity times unit price.
func (i BudgetPlanItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ActualBudgetItem is a realised expense line.
type ActualBudgetItem struct {
	ID         uuid.UUID              `gorm:"type:uuid;primaryKey"`
	BudgetID   uuid.UUID              `gorm:"column:budget_id;type:uuid;not null;index"`
	CategoryID uuid.UUID              `gorm:"column:category_id;type:uuid;not null;index"`
	ItemName   string                 `gorm:"column:item_name;not null"`
	Quantity   int                    `gorm:"column:quantity;not null"`
	UnitPrice  decimal.Decimal        `gorm:"column:unit_price;type:numeric(14,2);not null"`
	Status     enums.ActualItemStatus `gorm:"column:status;type:text;not null"`
	Notes      *string                `gorm:"column:notes"`
	BudgetSource
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (i *ActualBudgetItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

func (i ActualBudgetItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
