package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated member acting on a request. Role starts as
// the token's claim and is replaced with the live membership role by
// OrganizationContext.
type Principal struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           enums.MemberRole
	AccessID       string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// UserIDFromContext returns the caller's user id as a string, or "".
func UserIDFromContext(ctx context.Context) string {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.UserID == uuid.Nil {
		return ""
	}
	return p.UserID.String()
}

// OrganizationIDFromContext returns the active organization id as a string, or "".
func OrganizationIDFromContext(ctx context.Context) string {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.OrganizationID == uuid.Nil {
		return ""
	}
	return p.OrganizationID.String()
}
