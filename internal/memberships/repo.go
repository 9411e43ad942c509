package memberships

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// Repository exposes membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListUserOrganizations returns the active organizations a user belongs to, by name.
func (r *Repository) ListUserOrganizations(ctx context.Context, userID uuid.UUID) ([]MembershipWithOrganization, error) {
	var rows []membershipWithOrganizationRow

	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select("memberships.*, organizations.name AS organization_name").
		Joins("JOIN organizations ON organizations.id = memberships.organization_id").
		Where("memberships.user_id = ? AND memberships.status = ?", userID, enums.MembershipStatusActive).
		Order("organizations.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return membershipRowsToDTO(rows), nil
}

// GetMembership retrieves a membership by user and organization.
func (r *Repository) GetMembership(ctx context.Context, userID, organizationID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// GetMembershipWithOrganization returns membership details joined with organization metadata.
func (r *Repository) GetMembershipWithOrganization(ctx context.Context, userID, organizationID uuid.UUID) (*MembershipWithOrganization, error) {
	var rows []membershipWithOrganizationRow
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select("memberships.*, organizations.name AS organization_name").
		Joins("JOIN organizations ON organizations.id = memberships.organization_id").
		Where("memberships.user_id = ? AND memberships.organization_id = ?", userID, organizationID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	dto := membershipWithOrganizationFromRow(rows[0])
	return &dto, nil
}

// CreateMembership persists a new membership record.
func (r *Repository) CreateMembership(ctx context.Context, organizationID, userID uuid.UUID, role enums.MemberRole, invitedBy *uuid.UUID, status enums.MembershipStatus) (*models.Membership, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid member role %q", role)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid membership status %q", status)
	}

	membership := &models.Membership{
		OrganizationID:  organizationID,
		UserID:          userID,
		Role:            role,
		Status:          status,
		InvitedByUserID: invitedBy,
	}

	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// UpdateMembership changes role and status of an existing membership.
func (r *Repository) UpdateMembership(ctx context.Context, organizationID, userID uuid.UUID, role enums.MemberRole, status enums.MembershipStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		Updates(map[string]any{"role": role, "status": status})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UserHasRole reports whether the user actively holds one of the provided roles.
func (r *Repository) UserHasRole(ctx context.Context, userID, organizationID uuid.UUID, roles ...enums.MemberRole) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ? AND organization_id = ? AND status = ? AND role IN ?", userID, organizationID, enums.MembershipStatusActive, roles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsActiveMember reports whether the user is an active member of the organization.
func (r *Repository) IsActiveMember(ctx context.Context, userID, organizationID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ? AND organization_id = ? AND status = ?", userID, organizationID, enums.MembershipStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountMembersWithRoles counts active members holding any of the roles.
func (r *Repository) CountMembersWithRoles(ctx context.Context, organizationID uuid.UUID, roles ...enums.MemberRole) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("organization_id = ? AND status = ? AND role IN ?", organizationID, enums.MembershipStatusActive, roles).
		Count(&count).Error
	return count, err
}

// ListOrganizationMembers returns memberships of the organization along with user metadata.
func (r *Repository) ListOrganizationMembers(ctx context.Context, organizationID uuid.UUID) ([]MemberDTO, error) {
	var rows []memberRow
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select("memberships.*, users.email, users.first_name, users.last_name, users.last_login_at").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.organization_id = ? AND memberships.status <> ?", organizationID, enums.MembershipStatusRemoved).
		Order("memberships.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return membersFromRows(rows), nil
}

// ActivateInvitations turns every pending invitation of the user into an active membership.
func (r *Repository) ActivateInvitations(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ? AND status = ?", userID, enums.MembershipStatusInvited).
		Update("status", enums.MembershipStatusActive)
	return res.RowsAffected, res.Error
}
