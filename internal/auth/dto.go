package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/kelvin-saputra/sievo-sub000/internal/users"
	pkgAuth "github.com/kelvin-saputra/sievo-sub000/pkg/auth"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates an account together with its first organization.
type RegisterRequest struct {
	FirstName        string  `json:"first_name" validate:"required,max=100"`
	LastName         string  `json:"last_name" validate:"required,max=100"`
	Email            string  `json:"email" validate:"required,email"`
	Password         string  `json:"password" validate:"required,min=8"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	OrganizationName string  `json:"organization_name" validate:"required,max=200"`
}

// SwitchOrganizationRequest is the body of POST /auth/switch-organization.
type SwitchOrganizationRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" validate:"required"`
}

// OrganizationSummary describes one organization the user can act in.
type OrganizationSummary struct {
	ID   uuid.UUID        `json:"id"`
	Name string           `json:"name"`
	Role enums.MemberRole `json:"role"`
}

// SessionResponse is returned by every flow that issues tokens. The tokens
// are also written as cookies by the controller.
type SessionResponse struct {
	AccessToken        string                `json:"access_token"`
	RefreshToken       string                `json:"refresh_token"`
	ExpiresIn          int                   `json:"expires_in"`
	RefreshExpiresIn   int                   `json:"refresh_expires_in"`
	User               *users.UserDTO        `json:"user"`
	ActiveOrganization OrganizationSummary   `json:"active_organization"`
	Organizations      []OrganizationSummary `json:"organizations"`
}

// MeResponse is returned by GET /auth/me.
type MeResponse struct {
	User               *users.UserDTO        `json:"user"`
	ActiveOrganization OrganizationSummary   `json:"active_organization"`
	Organizations      []OrganizationSummary `json:"organizations"`
}

// Tokens returns the cookie payload for the response.
func (r *SessionResponse) Tokens() pkgAuth.SessionTokens {
	return pkgAuth.SessionTokens{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		AccessTTL:    time.Duration(r.ExpiresIn) * time.Second,
		RefreshTTL:   time.Duration(r.RefreshExpiresIn) * time.Second,
	}
}
