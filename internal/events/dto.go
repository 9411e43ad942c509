package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// Viewer is the member reading events. Freelancers only see events they staff.
type Viewer struct {
	UserID uuid.UUID
	Role   enums.MemberRole
}

func (v Viewer) restricted() bool {
	return v.Role == enums.MemberRoleFreelance
}

type EventDTO struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	Description     *string           `json:"description,omitempty"`
	ClientContactID *uuid.UUID        `json:"client_contact_id,omitempty"`
	Location        *string           `json:"location,omitempty"`
	StartDate       time.Time         `json:"start_date"`
	EndDate         time.Time         `json:"end_date"`
	Status          enums.EventStatus `json:"status"`
	ManagerID       *uuid.UUID        `json:"manager_id,omitempty"`
	CreatedBy       *uuid.UUID        `json:"created_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// EventDetailDTO adds the budget state and board counters to an event.
type EventDetailDTO struct {
	EventDTO
	BudgetID     *uuid.UUID                 `json:"budget_id,omitempty"`
	BudgetStatus *enums.BudgetStatus        `json:"budget_status,omitempty"`
	TaskCounts   map[enums.TaskStatus]int64 `json:"task_counts"`
	StaffCount   int64                      `json:"staff_count"`
}

type CreateEventRequest struct {
	Name            string     `json:"name" validate:"required,notblank,max=200"`
	Description     *string    `json:"description,omitempty"`
	ClientContactID *uuid.UUID `json:"client_contact_id,omitempty"`
	Location        *string    `json:"location,omitempty" validate:"omitempty,max=300"`
	StartDate       time.Time  `json:"start_date" validate:"required"`
	EndDate         time.Time  `json:"end_date" validate:"required"`
	ManagerID       *uuid.UUID `json:"manager_id,omitempty"`
}

type UpdateEventRequest struct {
	Name            *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string    `json:"description,omitempty"`
	ClientContactID *uuid.UUID `json:"client_contact_id,omitempty"`
	Location        *string    `json:"location,omitempty" validate:"omitempty,max=300"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	ManagerID       *uuid.UUID `json:"manager_id,omitempty"`
}

// ChangeStatusRequest is the body of POST /events/{eventId}/status.
type ChangeStatusRequest struct {
	Status enums.EventStatus `json:"status" validate:"required"`
}

// ListFilters narrows GET /events. From and To select events overlapping the window.
type ListFilters struct {
	Status *enums.EventStatus
	Query  string
	From   *time.Time
	To     *time.Time
}

func FromModel(m *models.Event) *EventDTO {
	if m == nil {
		return nil
	}
	return &EventDTO{
		ID:              m.ID,
		Name:            m.Name,
		Description:     m.Description,
		ClientContactID: m.ClientContactID,
		Location:        m.Location,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		Status:          m.Status,
		ManagerID:       m.ManagerID,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
