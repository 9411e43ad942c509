package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kelvin-saputra/sievo-sub000/pkg/auth/session"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
)

// SwitchOrganizationInput captures the data required to switch organizations.
type SwitchOrganizationInput struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	AccessTokenID  string
}

func (s *service) SwitchOrganization(ctx context.Context, input SwitchOrganizationInput) (*SessionResponse, error) {
	active, err := s.activeMembership(ctx, input.UserID, input.OrganizationID)
	if err != nil {
		return nil, err
	}
	user, err := s.activeUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	rotation, err := s.session.Reissue(ctx, input.AccessTokenID, input.UserID)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	orgs, err := s.listOrganizations(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return s.buildSession(user, *active, orgs, rotation.AccessID, rotation.RefreshToken)
}
