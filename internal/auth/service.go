package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/memberships"
	"github.com/kelvin-saputra/sievo-sub000/internal/users"
	pkgAuth "github.com/kelvin-saputra/sievo-sub000/pkg/auth"
	"github.com/kelvin-saputra/sievo-sub000/pkg/auth/session"
	"github.com/kelvin-saputra/sievo-sub000/pkg/config"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error)
	Login(ctx context.Context, req LoginRequest) (*SessionResponse, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*SessionResponse, error)
	Logout(ctx context.Context, accessID string) error
	SwitchOrganization(ctx context.Context, input SwitchOrganizationInput) (*SessionResponse, error)
	Me(ctx context.Context, userID, organizationID uuid.UUID) (*MeResponse, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type membershipsRepository interface {
	ListUserOrganizations(ctx context.Context, userID uuid.UUID) ([]memberships.MembershipWithOrganization, error)
	GetMembershipWithOrganization(ctx context.Context, userID, organizationID uuid.UUID) (*memberships.MembershipWithOrganization, error)
	ActivateInvitations(ctx context.Context, userID uuid.UUID) (int64, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (*session.Rotation, error)
	Reissue(ctx context.Context, oldAccessID string, userID uuid.UUID) (*session.Rotation, error)
	Revoke(ctx context.Context, accessID string) error
	TTL() time.Duration
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo        userRepository
	MembershipsRepo membershipsRepository
	SessionManager  sessionManager
	TxRunner        txRunner
	JWTConfig       config.JWTConfig
	PasswordConfig  config.PasswordConfig
	AllowSignup     bool
}

type service struct {
	users       userRepository
	memberships membershipsRepository
	session     sessionManager
	tx          txRunner
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	allowSignup bool
	now         func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.MembershipsRepo == nil {
		return nil, fmt.Errorf("memberships repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		users:       params.UserRepo,
		memberships: params.MembershipsRepo,
		session:     params.SessionManager,
		tx:          params.TxRunner,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		allowSignup: params.AllowSignup,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if _, err := s.memberships.ActivateInvitations(ctx, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate invitations")
	}
	orgs, err := s.listOrganizations(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no active organization membership")
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update last login")
	}
	user.LastLoginAt = &now

	accessID := session.NewAccessID()
	refreshToken, err := s.session.Generate(ctx, accessID, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	return s.buildSession(user, orgs[0], orgs, accessID, refreshToken)
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*SessionResponse, error) {
	if strings.TrimSpace(accessToken) == "" || strings.TrimSpace(refreshToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session tokens")
	}
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	rotation, err := s.session.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}
	if rotation.UserID != claims.UserID {
		_ = s.session.Revoke(ctx, rotation.AccessID)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		_ = s.session.Revoke(ctx, rotation.AccessID)
		return nil, err
	}
	orgs, err := s.listOrganizations(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		_ = s.session.Revoke(ctx, rotation.AccessID)
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no active organization membership")
	}

	// keep the organization the token was minted for while the membership lasts
	active := orgs[0]
	for _, org := range orgs {
		if org.ID == claims.ActiveOrganizationID {
			active = org
			break
		}
	}
	return s.buildSession(user, active, orgs, rotation.AccessID, rotation.RefreshToken)
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return nil
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) Me(ctx context.Context, userID, organizationID uuid.UUID) (*MeResponse, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	active, err := s.activeMembership(ctx, userID, organizationID)
	if err != nil {
		return nil, err
	}
	orgs, err := s.listOrganizations(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{
		User:               users.FromModel(user),
		ActiveOrganization: *active,
		Organizations:      orgs,
	}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.ToLower(strings.TrimSpace(email))
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) activeUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user disabled")
	}
	return user, nil
}

func (s *service) activeMembership(ctx context.Context, userID, organizationID uuid.UUID) (*OrganizationSummary, error) {
	membership, err := s.memberships.GetMembershipWithOrganization(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "organization membership required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup membership")
	}
	if membership.Status != enums.MembershipStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "organization membership inactive")
	}
	return &OrganizationSummary{
		ID:   membership.OrganizationID,
		Name: membership.OrganizationName,
		Role: membership.Role,
	}, nil
}

func (s *service) listOrganizations(ctx context.Context, userID uuid.UUID) ([]OrganizationSummary, error) {
	rows, err := s.memberships.ListUserOrganizations(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list organizations")
	}
	out := make([]OrganizationSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, OrganizationSummary{ID: row.OrganizationID, Name: row.OrganizationName, Role: row.Role})
	}
	return out, nil
}

func (s *service) buildSession(user *models.User, active OrganizationSummary, orgs []OrganizationSummary, accessID, refreshToken string) (*SessionResponse, error) {
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID:               user.ID,
		ActiveOrganizationID: active.ID,
		Role:                 active.Role,
		JTI:                  accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &SessionResponse{
		AccessToken:        accessToken,
		RefreshToken:       refreshToken,
		ExpiresIn:          int(s.jwtCfg.AccessTokenTTL().Seconds()),
		RefreshExpiresIn:   int(s.session.TTL().Seconds()),
		User:               users.FromModel(user),
		ActiveOrganization: active,
		Organizations:      orgs,
	}, nil
}
