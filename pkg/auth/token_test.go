package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kelvin-saputra/sievo-sub000/pkg/config"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
)

func testJWTConfig(minutes int) config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "sievo",
		ExpirationMinutes: minutes,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig(30)
	now := time.Now().UTC()
	userID := uuid.New()
	orgID := uuid.New()

	payload := AccessTokenPayload{
		UserID:               userID,
		ActiveOrganizationID: orgID,
		Role:                 enums.MemberRoleExecutive,
		JTI:                  "session-1",
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.ActiveOrganizationID != orgID {
		t.Fatalf("active organization id not preserved")
	}
	if claims.Role != enums.MemberRoleExecutive {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.ID != "session-1" {
		t.Fatalf("expected jti session-1, got %q", claims.ID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestMintAccessTokenGeneratesJTI(t *testing.T) {
	cfg := testJWTConfig(5)
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:               uuid.New(),
		ActiveOrganizationID: uuid.New(),
		Role:                 enums.MemberRoleManager,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		t.Fatalf("expected generated uuid jti, got %q", claims.ID)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig(10)
	payload := AccessTokenPayload{
		UserID:               uuid.New(),
		ActiveOrganizationID: uuid.New(),
		Role:                 enums.MemberRoleManager,
	}

	token, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig(15)
	payload := AccessTokenPayload{
		UserID:               uuid.New(),
		ActiveOrganizationID: uuid.New(),
		Role:                 enums.MemberRoleFreelance,
		JTI:                  "expired-session",
	}

	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	_, err = ParseAccessToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("expired token should still be inspectable: %v", err)
	}
	if claims.ID != "expired-session" {
		t.Fatalf("unexpected jti %q", claims.ID)
	}
}

func TestMintAccessTokenRejectsIncompletePayload(t *testing.T) {
	cfg := testJWTConfig(5)
	cases := map[string]AccessTokenPayload{
		"invalid role":     {UserID: uuid.New(), ActiveOrganizationID: uuid.New(), Role: ""},
		"missing user":     {ActiveOrganizationID: uuid.New(), Role: enums.MemberRoleOwner},
		"missing org":      {UserID: uuid.New(), Role: enums.MemberRoleOwner},
		"legacy role name": {UserID: uuid.New(), ActiveOrganizationID: uuid.New(), Role: "admin"},
	}
	for name, payload := range cases {
		if _, err := MintAccessToken(cfg, time.Now(), payload); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
