package controllers

import (
	"net/http"

	"github.com/kelvin-saputra/sievo-sub000/api/responses"
	"github.com/kelvin-saputra/sievo-sub000/api/validators"
	"github.com/kelvin-saputra/sievo-sub000/internal/auth"
	pkgAuth "github.com/kelvin-saputra/sievo-sub000/pkg/auth"
	"github.com/kelvin-saputra/sievo-sub000/pkg/config"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

// AuthHandlers groups the session endpoints. Every flow that issues tokens
// also writes them as HTTP-only cookies.
type AuthHandlers struct {
	Service auth.Service
	JWT     config.JWTConfig
	Cookies config.CookieConfig
	Logger  *logger.Logger
}

func (h AuthHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		result, err := h.Service.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		pkgAuth.SetSessionCookies(w, h.Cookies, result.Tokens())
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func (h AuthHandlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		result, err := h.Service.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		pkgAuth.SetSessionCookies(w, h.Cookies, result.Tokens())
		responses.WriteSuccess(w, result)
	}
}

// Refresh reads both tokens from cookies, falling back to the Authorization
// and X-Refresh-Token headers.
func (h AuthHandlers) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access := pkgAuth.AccessTokenFromRequest(r, h.Cookies)
		refresh := pkgAuth.RefreshTokenFromRequest(r, h.Cookies)
		result, err := h.Service.Refresh(r.Context(), access, refresh)
		if err != nil {
			if pkgerrors.As(err).Code() == pkgerrors.CodeUnauthorized {
				pkgAuth.ClearSessionCookies(w, h.Cookies)
			}
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		pkgAuth.SetSessionCookies(w, h.Cookies, result.Tokens())
		responses.WriteSuccess(w, result)
	}
}

// Logout accepts expired access tokens so a stale browser can still end its session.
func (h AuthHandlers) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer pkgAuth.ClearSessionCookies(w, h.Cookies)

		token := pkgAuth.AccessTokenFromRequest(r, h.Cookies)
		if token == "" {
			responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
			return
		}
		claims, err := pkgAuth.ParseAccessTokenAllowExpired(h.JWT, token)
		if err != nil {
			responses.WriteError(r.Context(), h.Logger, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}
		if err := h.Service.Logout(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func (h AuthHandlers) SwitchOrganization() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		var body auth.SwitchOrganizationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		result, err := h.Service.SwitchOrganization(r.Context(), auth.SwitchOrganizationInput{
			UserID:         p.UserID,
			OrganizationID: body.OrganizationID,
			AccessTokenID:  p.AccessID,
		})
		if err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		pkgAuth.SetSessionCookies(w, h.Cookies, result.Tokens())
		responses.WriteSuccess(w, result)
	}
}

func (h AuthHandlers) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		result, err := h.Service.Me(r.Context(), p.UserID, p.OrganizationID)
		if err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
