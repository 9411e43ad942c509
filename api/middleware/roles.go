package middleware

import (
	"net/http"

	"github.com/kelvin-saputra/sievo-sub000/api/responses"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

// Role groups used by the router.
var (
	RolesApprovers = []enums.MemberRole{enums.MemberRoleOwner, enums.MemberRoleExecutive}
	RolesPlanners  = []enums.MemberRole{enums.MemberRoleOwner, enums.MemberRoleExecutive, enums.MemberRoleManager}
	RolesStaff     = []enums.MemberRole{enums.MemberRoleOwner, enums.MemberRoleExecutive, enums.MemberRoleManager, enums.MemberRoleInternal}
)

// RequireRoles admits only principals whose membership role is listed.
// It must run after OrganizationContext.
func RequireRoles(logg *logger.Logger, allowed ...enums.MemberRole) func(http.Handler) http.Handler {
	set := make(map[enums.MemberRole]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if _, allowed := set[p.Role]; !allowed {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role").
					WithDetails(map[string]any{"role": p.Role}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
