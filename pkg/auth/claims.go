package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID               uuid.UUID
	ActiveOrganizationID uuid.UUID
	Role                 enums.MemberRole
	JTI                  string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID               uuid.UUID        `json:"user_id"`
	ActiveOrganizationID uuid.UUID        `json:"active_organization_id"`
	Role                 enums.MemberRole `json:"role"`
	jwt.RegisteredClaims
}
