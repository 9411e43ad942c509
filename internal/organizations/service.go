package organizations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/memberships"
	"github.com/kelvin-saputra/sievo-sub000/internal/users"
	"github.com/kelvin-saputra/sievo-sub000/pkg/config"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/security"
)

const tempPasswordLength = 16

type organizationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
}

type membershipsRepository interface {
	ListOrganizationMembers(ctx context.Context, organizationID uuid.UUID) ([]memberships.MemberDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes organization administration.
type Service interface {
	Get(ctx context.Context, organizationID uuid.UUID) (*OrganizationDTO, error)
	Update(ctx context.Context, organizationID uuid.UUID, input UpdateOrganizationRequest) (*OrganizationDTO, error)
	ListMembers(ctx context.Context, organizationID uuid.UUID) ([]memberships.MemberDTO, error)
	InviteMember(ctx context.Context, actor Actor, input InviteMemberRequest) (*InviteResult, error)
	ChangeMemberRole(ctx context.Context, actor Actor, targetUserID uuid.UUID, role enums.MemberRole) (*memberships.MemberDTO, error)
	RemoveMember(ctx context.Context, actor Actor, targetUserID uuid.UUID) error
}

// Actor is the authenticated member performing an admin action.
type Actor struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           enums.MemberRole
}

// InviteResult carries the created member and, for brand new users, the
// temporary password to hand over out of band.
type InviteResult struct {
	Member       *memberships.MemberDTO `json:"member"`
	TempPassword string                 `json:"temp_password,omitempty"`
}

type service struct {
	repo        organizationRepository
	memberships membershipsRepository
	tx          txRunner
	passwordCfg config.PasswordConfig
}

// NewService builds an organization service with the provided repositories.
func NewService(repo organizationRepository, membershipsRepo membershipsRepository, tx txRunner, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("organization repository required")
	}
	if membershipsRepo == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:        repo,
		memberships: membershipsRepo,
		tx:          tx,
		passwordCfg: passwordCfg,
	}, nil
}

func (s *service) Get(ctx context.Context, organizationID uuid.UUID) (*OrganizationDTO, error) {
	org, err := s.load(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return FromModel(org), nil
}

func (s *service) Update(ctx context.Context, organizationID uuid.UUID, input UpdateOrganizationRequest) (*OrganizationDTO, error) {
	org, err := s.load(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		org.Name = name
	}
	if input.Description != nil {
		org.Description = cloneStringPtr(input.Description)
	}
	if input.Phone != nil {
		org.Phone = cloneStringPtr(input.Phone)
	}
	if input.Email != nil {
		org.Email = cloneStringPtr(input.Email)
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update organization")
	}
	return FromModel(org), nil
}

func (s *service) ListMembers(ctx context.Context, organizationID uuid.UUID) ([]memberships.MemberDTO, error) {
	members, err := s.memberships.ListOrganizationMembers(ctx, organizationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list organization members")
	}
	return members, nil
}

func (s *service) InviteMember(ctx context.Context, actor Actor, input InviteMemberRequest) (*InviteResult, error) {
	email := users.NormalizeEmail(input.Email)
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if input.Role == enums.MemberRoleOwner && actor.Role != enums.MemberRoleOwner {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only owners can grant the owner role")
	}

	var (
		userID       uuid.UUID
		tempPassword string
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		membershipRepo := memberships.NewRepository(tx)

		user, err := userRepo.FindByEmail(ctx, email)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user, tempPassword, err = s.createInvitedUser(ctx, userRepo, email, input.FirstName, input.LastName)
			if err != nil {
				return err
			}
		case err != nil:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
		}
		userID = user.ID

		existing, err := membershipRepo.GetMembership(ctx, user.ID, actor.OrganizationID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
		}
		if existing != nil {
			if existing.Status != enums.MembershipStatusRemoved {
				return pkgerrors.New(pkgerrors.CodeConflict, "user is already a member")
			}
			if err := membershipRepo.UpdateMembership(ctx, actor.OrganizationID, user.ID, input.Role, enums.MembershipStatusInvited); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reinstate membership")
			}
			return nil
		}

		if _, err := membershipRepo.CreateMembership(ctx, actor.OrganizationID, user.ID, input.Role, &actor.UserID, enums.MembershipStatusInvited); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	member, err := s.fetchMember(ctx, actor.OrganizationID, userID)
	if err != nil {
		return nil, err
	}
	return &InviteResult{Member: member, TempPassword: tempPassword}, nil
}

func (s *service) ChangeMemberRole(ctx context.Context, actor Actor, targetUserID uuid.UUID, role enums.MemberRole) (*memberships.MemberDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.lockOrganization(ctx, tx, actor.OrganizationID); err != nil {
			return err
		}
		membershipRepo := memberships.NewRepository(tx)
		membership, err := s.loadMembership(ctx, membershipRepo, actor.OrganizationID, targetUserID)
		if err != nil {
			return err
		}
		touchesOwner := membership.Role == enums.MemberRoleOwner || role == enums.MemberRoleOwner
		if touchesOwner && actor.Role != enums.MemberRoleOwner {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only owners can change owner roles")
		}
		if isActiveOwner(membership) && role != enums.MemberRoleOwner {
			if err := ensureAnotherOwner(ctx, membershipRepo, actor.OrganizationID); err != nil {
				return err
			}
		}
		if err := membershipRepo.UpdateMembership(ctx, actor.OrganizationID, targetUserID, role, membership.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update membership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.fetchMember(ctx, actor.OrganizationID, targetUserID)
}

func (s *service) RemoveMember(ctx context.Context, actor Actor, targetUserID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.lockOrganization(ctx, tx, actor.OrganizationID); err != nil {
			return err
		}
		membershipRepo := memberships.NewRepository(tx)
		membership, err := s.loadMembership(ctx, membershipRepo, actor.OrganizationID, targetUserID)
		if err != nil {
			return err
		}
		if membership.Role == enums.MemberRoleOwner {
			if actor.Role != enums.MemberRoleOwner {
				return pkgerrors.New(pkgerrors.CodeForbidden, "only owners can remove an owner")
			}
			if isActiveOwner(membership) {
				if err := ensureAnotherOwner(ctx, membershipRepo, actor.OrganizationID); err != nil {
					return err
				}
			}
		}
		if err := membershipRepo.UpdateMembership(ctx, actor.OrganizationID, targetUserID, membership.Role, enums.MembershipStatusRemoved); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove membership")
		}
		return nil
	})
}

func (s *service) createInvitedUser(ctx context.Context, repo *users.Repository, email, firstName, lastName string) (*models.User, string, error) {
	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := repo.Create(ctx, users.NewUser{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, tempPassword, nil
}

func (s *service) loadMembership(ctx context.Context, repo *memberships.Repository, organizationID, userID uuid.UUID) (*models.Membership, error) {
	membership, err := repo.GetMembership(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	if membership.Status == enums.MembershipStatusRemoved {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
	}
	return membership, nil
}

func (s *service) fetchMember(ctx context.Context, organizationID, userID uuid.UUID) (*memberships.MemberDTO, error) {
	members, err := s.memberships.ListOrganizationMembers(ctx, organizationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list organization members")
	}
	for _, m := range members {
		if m.UserID == userID {
			return &m, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load organization")
	}
	return org, nil
}

// lockOrganization serializes membership changes within one organization,
// so the owner count read by ensureAnotherOwner stays valid until commit.
func (s *service) lockOrganization(ctx context.Context, tx *gorm.DB, organizationID uuid.UUID) error {
	if _, err := NewRepository(tx).Lock(ctx, organizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock organization")
	}
	return nil
}

func ensureAnotherOwner(ctx context.Context, repo *memberships.Repository, organizationID uuid.UUID) error {
	count, err := repo.CountMembersWithRoles(ctx, organizationID, enums.MemberRoleOwner)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count owners")
	}
	if count <= 1 {
		return pkgerrors.New(pkgerrors.CodeConflict, "organization must keep at least one owner")
	}
	return nil
}

func isActiveOwner(m *models.Membership) bool {
	return m.Role == enums.MemberRoleOwner && m.Status == enums.MembershipStatusActive
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
