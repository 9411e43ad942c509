package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VendorService is a priced offering of a vendor contact.
type VendorService struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OrganizationID  uuid.UUID        `gorm:"column:organization_id;type:uuid;not null;index"`
	VendorContactID uuid.UUID        `gorm:"column:vendor_contact_id;type:uuid;not null;index"`
	ServiceName     string           `gorm:"column:service_name;not null"`
	Category        *string          `gorm:"column:category"`
	Price           decimal.Decimal  `gorm:"column:price;type:numeric(14,2);not null"`
	Rating          *decimal.Decimal `gorm:"column:rating;type:numeric(2,1)"`
	Description     *string          `gorm:"column:description"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt   `gorm:"column:deleted_at;index"`
}

func (v *VendorService) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	return nil
}
