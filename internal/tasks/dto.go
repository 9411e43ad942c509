package tasks

import (
	"time"

	"github.com/google/uuid"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// Actor is the member working the task board.
type Actor struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           enums.MemberRole
}

type TaskDTO struct {
	ID          uuid.UUID          `json:"id"`
	EventID     uuid.UUID          `json:"event_id"`
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	AssigneeID  *uuid.UUID         `json:"assignee_id,omitempty"`
	Priority    enums.TaskPriority `json:"priority"`
	Status      enums.TaskStatus   `json:"status"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	CreatedBy   *uuid.UUID         `json:"created_by,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type CreateTaskRequest struct {
	Title       string              `json:"title" validate:"required,notblank,max=200"`
	Description *string             `json:"description,omitempty"`
	AssigneeID  *uuid.UUID          `json:"assignee_id,omitempty"`
	Priority    *enums.TaskPriority `json:"priority,omitempty"`
	DueDate     *time.Time          `json:"due_date,omitempty"`
}

// UpdateTaskRequest patches a task. Unassign clears the assignee.
type UpdateTaskRequest struct {
	Title       *string             `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string             `json:"description,omitempty"`
	AssigneeID  *uuid.UUID          `json:"assignee_id,omitempty"`
	Unassign    bool                `json:"unassign,omitempty"`
	Priority    *enums.TaskPriority `json:"priority,omitempty"`
	Status      *enums.TaskStatus   `json:"status,omitempty"`
	DueDate     *time.Time          `json:"due_date,omitempty"`
}

// onlyStatus reports whether the patch touches nothing but the status.
func (r UpdateTaskRequest) onlyStatus() bool {
	return r.Title == nil && r.Description == nil && r.AssigneeID == nil && !r.Unassign &&
		r.Priority == nil && r.DueDate == nil
}

type ListFilters struct {
	EventID    *uuid.UUID
	AssigneeID *uuid.UUID
	Status     *enums.TaskStatus
}

func FromModel(m *models.Task) *TaskDTO {
	if m == nil {
		return nil
	}
	return &TaskDTO{
		ID:          m.ID,
		EventID:     m.EventID,
		Title:       m.Title,
		Description: m.Description,
		AssigneeID:  m.AssigneeID,
		Priority:    m.Priority,
		Status:      m.Status,
		DueDate:     m.DueDate,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
