package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Inventory is owned equipment that budget plan items can reserve.
type Inventory struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID       `gorm:"column:organization_id;type:uuid;not null;index"`
	Name           string          `gorm:"column:name;not null"`
	Category       *string         `gorm:"column:category"`
	Description    *string         `gorm:"column:description"`
	TotalQty       int             `gorm:"column:total_qty;not null;default:0"`
	ReservedQty    int             `gorm:"column:reserved_qty;not null;default:0"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2);not null"`
	IsAvailable    bool            `gorm:"column:is_available;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (Inventory) TableName() string {
	return "inventories"
}

func (i *Inventory) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// AvailableQty is the quantity not yet held by plan items.
func (i Inventory) AvailableQty() int {
	return i.TotalQty - i.ReservedQty
}
