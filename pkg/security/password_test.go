package security_test

import (
	"testing"

	"github.com/kelvin-saputra/sievo-sub000/pkg/config"
	"github.com/kelvin-saputra/sievo-sub000/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestCheckPasswordPolicy(t *testing.T) {
	cases := map[string]bool{
		"short1":        false,
		"onlyletters":   false,
		"1234567890":    false,
		"event2026":     true,
		"Budget-plan-9": true,
	}
	for password, ok := range cases {
		err := security.CheckPasswordPolicy(password)
		if ok && err != nil {
			t.Fatalf("%q should pass: %v", password, err)
		}
		if !ok && err == nil {
			t.Fatalf("%q should fail", password)
		}
	}
}

func TestGenerateTempPasswordLength(t *testing.T) {
	pw, err := security.GenerateTempPassword(12)
	if err != nil {
		t.Fatalf("GenerateTempPassword: %v", err)
	}
	if len(pw) != 12 {
		t.Fatalf("expected 12 chars, got %d", len(pw))
	}
	if _, err := security.GenerateTempPassword(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestTempPasswordSatisfiesPolicy(t *testing.T) {
	for i := 0; i < 20; i++ {
		pw, err := security.GenerateTempPassword(security.MinPasswordLength)
		if err != nil {
			t.Fatalf("GenerateTempPassword: %v", err)
		}
		if err := security.CheckPasswordPolicy(pw); err != nil {
			t.Fatalf("%q violates policy: %v", pw, err)
		}
	}
}

func TestVerifyPasswordRejectsForeignScheme(t *testing.T) {
	if _, err := security.VerifyPassword("x", "$argon2i$v=19$m=8,t=1,p=1$c2FsdA$a2V5"); err != security.ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}
