package hr

import (
	"time"

	"github.com/google/uuid"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// Actor is the member staffing events.
type Actor struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           enums.MemberRole
}

type AssignmentDTO struct {
	ID         uuid.UUID  `json:"id"`
	EventID    uuid.UUID  `json:"event_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Position   string     `json:"position"`
	Notes      *string    `json:"notes,omitempty"`
	AssignedBy *uuid.UUID `json:"assigned_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// StaffMemberDTO is an assignment joined with the staffed user.
type StaffMemberDTO struct {
	AssignmentDTO
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Role      enums.MemberRole `json:"role"`
}

// ScheduleEntryDTO is one event on a member's schedule.
type ScheduleEntryDTO struct {
	EventID   uuid.UUID         `json:"event_id"`
	EventName string            `json:"event_name"`
	Location  *string           `json:"location,omitempty"`
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
	Status    enums.EventStatus `json:"status"`
	Position  string            `json:"position"`
}

type AssignRequest struct {
	UserID   uuid.UUID `json:"user_id" validate:"required"`
	Position string    `json:"position" validate:"required,notblank,max=120"`
	Notes    *string   `json:"notes,omitempty"`
}

type UpdateAssignmentRequest struct {
	Position *string `json:"position,omitempty" validate:"omitempty,min=1,max=120"`
	Notes    *string `json:"notes,omitempty"`
}

// ScheduleFilters bounds a schedule to events intersecting [From, To].
type ScheduleFilters struct {
	From *time.Time
	To   *time.Time
}

func FromModel(m *models.EventAssignment) *AssignmentDTO {
	if m == nil {
		return nil
	}
	return &AssignmentDTO{
		ID:         m.ID,
		EventID:    m.EventID,
		UserID:     m.UserID,
		Position:   m.Position,
		Notes:      m.Notes,
		AssignedBy: m.AssignedBy,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
