package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kelvin-saputra/sievo-sub000/internal/contacts"
	pkgAuth "github.com/kelvin-saputra/sievo-sub000/pkg/auth"
	"github.com/kelvin-saputra/sievo-sub000/pkg/config"
	"github.com/kelvin-saputra/sievo-sub000/pkg/db/models"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubSessions struct{}

func (stubSessions) HasSession(context.Context, string) (bool, error) { return true, nil }

// roleBook answers membership lookups from a fixed user->role table.
type roleBook map[uuid.UUID]enums.MemberRole

func (b roleBook) GetMembership(_ context.Context, userID, orgID uuid.UUID) (*models.Membership, error) {
	role, ok := b[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Membership{UserID: userID, OrganizationID: orgID, Role: role, Status: enums.MembershipStatusActive}, nil
}

type stubContacts struct {
	created []contacts.CreateContactRequest
}

func (s *stubContacts) Create(_ context.Context, _, _ uuid.UUID, req contacts.CreateContactRequest) (*contacts.ContactDTO, error) {
	s.created = append(s.created, req)
	return &contacts.ContactDTO{ID: uuid.New(), Name: req.Name, Type: req.Type}, nil
}

func (s *stubContacts) Get(context.Context, uuid.UUID, uuid.UUID) (*contacts.ContactDTO, error) {
	return &contacts.ContactDTO{ID: uuid.New()}, nil
}

func (s *stubContacts) Update(context.Context, uuid.UUID, uuid.UUID, contacts.UpdateContactRequest) (*contacts.ContactDTO, error) {
	return nil, errors.New("not implemented")
}

func (s *stubContacts) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (s *stubContacts) List(context.Context, uuid.UUID, contacts.ListFilters, pagination.Params) (*pagination.Page[contacts.ContactDTO], error) {
	return &pagination.Page[contacts.ContactDTO]{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Env: "test"},
		JWT:    config.JWTConfig{Secret: "router-secret", Issuer: "sievo-test", ExpirationMinutes: 15},
		Cookie: config.CookieConfig{AccessName: "sievo_access", RefreshName: "sievo_refresh", Path: "/"},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func newTestRouter(cfg *config.Config, roles roleBook, contactSvc contacts.Service, db stubPinger) http.Handler {
	return NewRouter(Deps{
		Config:      cfg,
		Logger:      logger.New(logger.Options{ServiceName: "test-routing", Output: io.Discard}),
		DB:          db,
		Sessions:    stubSessions{},
		Memberships: roles,
		Contacts:    contactSvc,
	})
}

func bearer(t *testing.T, cfg *config.Config, userID uuid.UUID, role enums.MemberRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:               userID,
		ActiveOrganizationID: uuid.New(),
		Role:                 role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthEndpoints(t *testing.T) {
	cfg := testConfig()

	resp := httptest.NewRecorder()
	newTestRouter(cfg, roleBook{}, nil, stubPinger{}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected ready 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	newTestRouter(cfg, roleBook{}, nil, stubPinger{err: errors.New("down")}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected ready 503 when the database is down got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "postgres") {
		t.Fatalf("expected failing dependency named, got %s", resp.Body.String())
	}
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	router := newTestRouter(testConfig(), roleBook{}, &stubContacts{}, stubPinger{})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestNonMemberIsForbidden(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, roleBook{}, &stubContacts{}, stubPinger{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	req.Header.Set("Authorization", bearer(t, cfg, uuid.New(), enums.MemberRoleOwner))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a user without membership got %d", resp.Code)
	}
}

func TestContactWritesFollowMembershipRole(t *testing.T) {
	cfg := testConfig()
	internal, freelancer := uuid.New(), uuid.New()
	svc := &stubContacts{}
	// the token claims owner for both; the live membership role wins
	router := newTestRouter(cfg, roleBook{internal: enums.MemberRoleInternal, freelancer: enums.MemberRoleFreelance}, svc, stubPinger{})

	tests := []struct {
		name   string
		user   uuid.UUID
		method string
		path   string
		body   string
		want   int
	}{
		{"freelancer reads", freelancer, http.MethodGet, "/api/v1/contacts", "", http.StatusOK},
		{"freelancer cannot create", freelancer, http.MethodPost, "/api/v1/contacts", `{"name":"Acme","type":"client"}`, http.StatusForbidden},
		{"internal creates", internal, http.MethodPost, "/api/v1/contacts", `{"name":"Acme","type":"client"}`, http.StatusCreated},
		{"internal cannot invite", internal, http.MethodPost, "/api/v1/organization/members", `{}`, http.StatusForbidden},
		{"bad id", internal, http.MethodGet, "/api/v1/contacts/not-a-uuid", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			req.Header.Set("Authorization", bearer(t, cfg, tt.user, enums.MemberRoleOwner))
			req.Header.Set("Idempotency-Key", uuid.NewString())
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tt.want {
				t.Fatalf("expected %d got %d: %s", tt.want, resp.Code, resp.Body.String())
			}
		})
	}
	if len(svc.created) != 1 || svc.created[0].Name != "Acme" {
		t.Fatalf("expected exactly one contact created, got %+v", svc.created)
	}
}
