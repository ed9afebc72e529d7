package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$13$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	if !VerifyPassword(hash, "correct horse battery staple") {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword(hash, "wrong password entirely") {
		t.Fatal("expected wrong password to fail")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "whatever") {
		t.Fatal("expected malformed hash to fail verification")
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	if err := CheckPasswordStrength("short"); err == nil {
		t.Fatal("expected short password to be rejected")
	}
	if err := CheckPasswordStrength("aaaaaaaaaa"); err == nil {
		t.Fatal("expected low-entropy password to be rejected")
	}
	if err := CheckPasswordStrength("correct horse battery staple"); err != nil {
		t.Fatalf("expected strong password to pass: %v", err)
	}
}
