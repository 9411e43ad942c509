package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/api/responses"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

type MembershipLookup interface {
	GetMembership(ctx context.Context, userID, organizationID uuid.UUID) (*models.Membership, error)
}

// OrganizationContext requires an active membership in the token's
// organization and swaps the token role for the current membership role,
// so demotions and removals apply before the token expires.
func OrganizationContext(lookup MembershipLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			p, ok := PrincipalFromContext(ctx)
			if !ok {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if p.OrganizationID == uuid.Nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "organization context missing"))
				return
			}
			m, err := lookup.GetMembership(ctx, p.UserID, p.OrganizationID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this organization"))
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership"))
				return
			}
			if m.Status != enums.MembershipStatusActive {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "membership is not active"))
				return
			}

			p.Role = m.Role
			ctx = WithPrincipal(ctx, p)
			if logg != nil {
				ctx = logg.WithActorRole(ctx, string(m.Role))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
