package middleware

import (
	"net/http"

	"github.com/kelvin-saputra/sievo-sub000/api/responses"
	pkgAuth "github.com/kelvin-saputra/sievo-sub000/pkg/auth"
	"github.com/kelvin-saputra/sievo-sub000/pkg/auth/session"
	"github.com/kelvin-saputra/sievo-sub000/pkg/config"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

// Auth accepts the access token from the session cookie or a Bearer header,
// requires its refresh session to still exist, and seeds the Principal.
func Auth(jwtCfg config.JWTConfig, cookieCfg config.CookieConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := pkgAuth.AccessTokenFromRequest(r, cookieCfg)
			if token == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			claims, err := pkgAuth.ParseAccessToken(jwtCfg, token)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}
			if verifier != nil {
				live, err := verifier.HasSession(ctx, claims.ID)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !live {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked"))
					return
				}
			}

			ctx = WithPrincipal(ctx, Principal{
				UserID:         claims.UserID,
				OrganizationID: claims.ActiveOrganizationID,
				Role:           claims.Role,
				AccessID:       claims.ID,
			})
			ctx = logg.WithPrincipal(ctx, claims.UserID.String(), claims.ActiveOrganizationID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
