package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventAssignment staffs a member onto an event.
type EventAssignment struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID  `gorm:"column:organization_id;type:uuid;not null;index"`
	EventID        uuid.UUID  `gorm:"column:event_id;type:uuid;not null;uniqueIndex:ux_event_assignments_event_user"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_event_assignments_event_user"`
	Position       string     `gorm:"column:position;not null"`
	Notes          *string    `gorm:"column:notes"`
	AssignedBy     *uuid.UUID `gorm:"column:assigned_by;type:uuid"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *EventAssignment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
