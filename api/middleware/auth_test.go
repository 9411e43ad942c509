package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgAuth "github.com/kelvin-saputra/sievo-sub000/pkg/auth"
	"github.com/kelvin-saputra/sievo-sub000/pkg/config"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

type stubSessions struct {
	live map[string]bool
	err  error
}

func (s stubSessions) HasSession(_ context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.live[accessID], nil
}

var (
	testJWT     = config.JWTConfig{Secret: "test-secret", Issuer: "sievo-test", ExpirationMinutes: 15}
	testCookies = config.CookieConfig{AccessName: "sievo_access", RefreshName: "sievo_refresh", Path: "/"}
)

func mintToken(t *testing.T, jti string, user, org uuid.UUID, role enums.MemberRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:               user,
		ActiveOrganizationID: org,
		Role:                 role,
		JTI:                  jti,
	})
	require.NoError(t, err)
	return token
}

func captureHandler(seen *Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		*seen = p
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthAcceptsCookieAndBearer(t *testing.T) {
	user, org := uuid.New(), uuid.New()
	token := mintToken(t, "jti-1", user, org, enums.MemberRoleManager)
	mw := Auth(testJWT, testCookies, stubSessions{live: map[string]bool{"jti-1": true}}, nil)

	cookieReq := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	cookieReq.AddCookie(&http.Cookie{Name: "sievo_access", Value: token})
	bearerReq := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	bearerReq.Header.Set("Authorization", "Bearer "+token)

	for _, req := range []*http.Request{cookieReq, bearerReq} {
		var seen Principal
		resp := httptest.NewRecorder()
		mw(captureHandler(&seen)).ServeHTTP(resp, req)

		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.Equal(t, user, seen.UserID)
		assert.Equal(t, org, seen.OrganizationID)
		assert.Equal(t, enums.MemberRoleManager, seen.Role)
		assert.Equal(t, "jti-1", seen.AccessID)
	}
}

func TestAuthRejections(t *testing.T) {
	user, org := uuid.New(), uuid.New()
	live := mintToken(t, "live", user, org, enums.MemberRoleOwner)
	revoked := mintToken(t, "revoked", user, org, enums.MemberRoleOwner)

	tests := []struct {
		name     string
		header   string
		sessions stubSessions
		want     int
	}{
		{"missing", "", stubSessions{}, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", stubSessions{}, http.StatusUnauthorized},
		{"revoked", "Bearer " + revoked, stubSessions{live: map[string]bool{"live": true}}, http.StatusUnauthorized},
		{"session store down", "Bearer " + live, stubSessions{err: errors.New("redis down")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			called := false
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
			resp := httptest.NewRecorder()
			Auth(testJWT, testCookies, tt.sessions, nil)(next).ServeHTTP(resp, req)

			assert.Equal(t, tt.want, resp.Code)
			assert.False(t, called)
		})
	}
}
