package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// Proposal is the commercial offer sent to an event's client.
type Proposal struct {
	ID              uuid.UUID            `gorm:"type:uuid;primaryKey"`
	OrganizationID  uuid.UUID            `gorm:"column:organization_id;type:uuid;not null;index"`
	EventID         uuid.UUID            `gorm:"column:event_id;type:uuid;not null;index"`
	ClientContactID *uuid.UUID           `gorm:"column:client_contact_id;type:uuid"`
	Title           string               `gorm:"column:title;not null"`
	Content         string               `gorm:"column:content;type:text;not null"`
	Status          enums.ProposalStatus `gorm:"column:status;type:text;not null"`
	TotalAmount     decimal.Decimal      `gorm:"column:total_amount;type:numeric(14,2);not null"`
	ValidUntil      *time.Time           `gorm:"column:valid_until"`
	SentAt          *time.Time           `gorm:"column:sent_at"`
	RespondedAt     *time.Time           `gorm:"column:responded_at"`
	CreatedBy       *uuid.UUID           `gorm:"column:created_by;type:uuid"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt       `gorm:"column:deleted_at;index"`
}

func (p *Proposal) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
