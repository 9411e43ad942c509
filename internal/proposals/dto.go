package proposals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// Actor is the member drafting or answering proposals.
type Actor struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           enums.MemberRole
}

type ProposalDTO struct {
	ID              uuid.UUID            `json:"id"`
	EventID         uuid.UUID            `json:"event_id"`
	ClientContactID *uuid.UUID           `json:"client_contact_id,omitempty"`
	Title           string               `json:"title"`
	Content         string               `json:"content"`
	Status          enums.ProposalStatus `json:"status"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	ValidUntil      *time.Time           `json:"valid_until,omitempty"`
	SentAt          *time.Time           `json:"sent_at,omitempty"`
	RespondedAt     *time.Time           `json:"responded_at,omitempty"`
	CreatedBy       *uuid.UUID           `json:"created_by,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// CreateProposalRequest drafts a proposal. TotalAmount defaults to the
// event's planned budget total and ClientContactID to the event's client.
type CreateProposalRequest struct {
	EventID         uuid.UUID        `json:"event_id" validate:"required"`
	ClientContactID *uuid.UUID       `json:"client_contact_id,omitempty"`
	Title           string           `json:"title" validate:"required,notblank,max=200"`
	Content         string           `json:"content"`
	TotalAmount     *decimal.Decimal `json:"total_amount,omitempty"`
	ValidUntil      *time.Time       `json:"valid_until,omitempty"`
}

type UpdateProposalRequest struct {
	ClientContactID *uuid.UUID       `json:"client_contact_id,omitempty"`
	Title           *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content         *string          `json:"content,omitempty"`
	TotalAmount     *decimal.Decimal `json:"total_amount,omitempty"`
	ValidUntil      *time.Time       `json:"valid_until,omitempty"`
}

type ChangeStatusRequest struct {
	Status enums.ProposalStatus `json:"status" validate:"required"`
}

type ListFilters struct {
	EventID *uuid.UUID
	Status  *enums.ProposalStatus
}

func FromModel(m *models.Proposal) *ProposalDTO {
	if m == nil {
		return nil
	}
	return &ProposalDTO{
		ID:              m.ID,
		EventID:         m.EventID,
		ClientContactID: m.ClientContactID,
		Title:           m.Title,
		Content:         m.Content,
		Status:          m.Status,
		TotalAmount:     m.TotalAmount,
		ValidUntil:      m.ValidUntil,
		SentAt:          m.SentAt,
		RespondedAt:     m.RespondedAt,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
