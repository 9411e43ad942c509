package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// Event is a client engagement with a date range and its own budget.
type Event struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrganizationID  uuid.UUID         `gorm:"column:organization_id;type:uuid;not null;index"`
	Name            string            `gorm:"column:name;not null"`
	Description     *string           `gorm:"column:description"`
	ClientContactID *uuid.UUID        `gorm:"column:client_contact_id;type:uuid"`
	Location        *string           `gorm:"column:location"`
	StartDate       time.Time         `gorm:"column:start_date;not null"`
	EndDate         time.Time         `gorm:"column:end_date;not null"`
	Status          enums.EventStatus `gorm:"column:status;type:text;not null"`
	ManagerID       *uuid.UUID        `gorm:"column:manager_id;type:uuid"`
	CreatedBy       *uuid.UUID        `gorm:"column:created_by;type:uuid"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt    `gorm:"column:deleted_at;index"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
