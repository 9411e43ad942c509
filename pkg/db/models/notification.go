package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// Notification stores in-app notification payloads addressed to one member.
type Notification struct {
	ID             uuid.UUID              `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID              `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID              `gorm:"type:uuid;not null;index"`
	Type           enums.NotificationType `gorm:"type:text;not null"`
	Title          string                 `gorm:"type:text;not null"`
	Message        string                 `gorm:"type:text;not null"`
	Link           *string                `gorm:"type:text"`
	ReadAt         *time.Time             `gorm:"column:read_at"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	ensureID(&n.ID)
	return nil
}
