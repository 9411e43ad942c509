package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/memberships"
	"github.com/kelvin-saputra/sievo-sub000/internal/organizations"
	"github.com/kelvin-saputra/sievo-sub000/internal/users"
	"github.com/kelvin-saputra/sievo-sub000/pkg/auth/session"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/security"
)

// Register creates the user, their organization and the owner membership in
// one transaction, then opens a session for the new owner.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	if !s.allowSignup {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "self signup disabled")
	}

	email := users.NormalizeEmail(req.Email)
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email").
			WithDetails(map[string]any{"field": "email"})
	}
	orgName := strings.TrimSpace(req.OrganizationName)
	if orgName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "organization name is required").
			WithDetails(map[string]any{"field": "organization_name"})
	}
	if err := security.CheckPasswordPolicy(req.Password); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
			WithDetails(map[string]any{"field": "password"})
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var (
		user *models.User
		org  *models.Organization
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		orgRepo := organizations.NewRepository(tx)
		membershipRepo := memberships.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
		}

		user, err = userRepo.Create(ctx, users.NewUser{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		org, err = orgRepo.Create(ctx, organizations.CreateOrganizationDTO{
			Name:    orgName,
			OwnerID: user.ID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create organization")
		}

		if _, err := membershipRepo.CreateMembership(ctx, org.ID, user.ID, enums.MemberRoleOwner, nil, enums.MembershipStatusActive); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	accessID := session.NewAccessID()
	refreshToken, err := s.session.Generate(ctx, accessID, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	active := OrganizationSummary{ID: org.ID, Name: org.Name, Role: enums.MemberRoleOwner}
	return s.buildSession(user, active, []OrganizationSummary{active}, accessID, refreshToken)
}
