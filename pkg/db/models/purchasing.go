package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchasing is an ad-hoc purchase source for budget items.
type Purchasing struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID       `gorm:"column:organization_id;type:uuid;not null;index"`
	ItemName       string          `gorm:"column:item_name;not null"`
	Description    *string         `gorm:"column:description"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2);not null"`
	VendorName     *string         `gorm:"column:vendor_name"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (Purchasing) TableName() string {
	return "purchasings"
}

func (p *Purchasing) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
