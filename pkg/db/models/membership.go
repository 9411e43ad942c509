package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// Membership links a user with an organization and captures their role/status.
type Membership struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID  uuid.UUID              `gorm:"column:organization_id;type:uuid;not null;uniqueIndex:ux_memberships_org_user"`
	UserID          uuid.UUID              `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_memberships_org_user"`
	Role            enums.MemberRole       `gorm:"column:role;type:text;not null"`
	Status          enums.MembershipStatus `gorm:"column:status;type:text;not null"`
	InvitedByUserID *uuid.UUID             `gorm:"column:invited_by_user_id;type:uuid"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *Membership) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
