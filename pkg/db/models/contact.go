package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// Contact is an address book entry: clients, vendors and partners.
type Contact struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID         `gorm:"column:organization_id;type:uuid;not null;index"`
	Name           string            `gorm:"column:name;not null"`
	Type           enums.ContactType `gorm:"column:type;type:text;not null"`
	Company        *string           `gorm:"column:company"`
	Email          *string           `gorm:"column:email"`
	Phone          *string           `gorm:"column:phone"`
	Address        *string           `gorm:"column:address"`
	Notes          *string           `gorm:"column:notes"`
	CreatedBy      *uuid.UUID        `gorm:"column:created_by;type:uuid"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt    `gorm:"column:deleted_at;index"`
}

func (c *Contact) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
