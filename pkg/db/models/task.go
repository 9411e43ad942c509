package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// Task is a unit of work on an event board.
type Task struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID          `gorm:"column:organization_id;type:uuid;not null;index"`
	EventID        uuid.UUID          `gorm:"column:event_id;type:uuid;not null;index"`
	Title          string             `gorm:"column:title;not null"`
	Description    *string            `gorm:"column:description"`
	AssigneeID     *uuid.UUID         `gorm:"column:assignee_id;type:uuid;index"`
	Priority       enums.TaskPriority `gorm:"column:priority;type:text;not null"`
	Status         enums.TaskStatus   `gorm:"column:status;type:text;not null"`
	DueDate        *time.Time         `gorm:"column:due_date"`
	CreatedBy      *uuid.UUID         `gorm:"column:created_by;type:uuid"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt     `gorm:"column:deleted_at;index"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
