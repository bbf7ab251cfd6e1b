package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_Verify(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "correct horse" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !strings.HasPrefix(hash, "$2a$12$") {
		t.Errorf("hash = %q, want bcrypt cost 12 prefix", hash)
	}
	if !VerifyPassword("correct horse", hash) {
		t.Error("VerifyPassword should accept the original password")
	}
	if VerifyPassword("wrong horse", hash) {
		t.Error("VerifyPassword should reject a different password")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "plaintext", hash: "password"},
		{name: "truncated", hash: "$2a$12$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifyPassword("password", tt.hash) {
				t.Errorf("VerifyPassword(%q) = true, want false", tt.hash)
			}
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := HashPassword("password")
	b, _ := HashPassword("password")
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}

func TestBurnPasswordCheck_DummyHashMatchesCost(t *testing.T) {
	cost, err := bcrypt.Cost(dummyHash)
	if err != nil {
		t.Fatalf("dummy hash is not a bcrypt hash: %v", err)
	}
	if cost != PasswordCost {
		t.Errorf("dummy hash cost = %d, want %d", cost, PasswordCost)
	}

	// Must not panic or match arbitrary input.
	BurnPasswordCheck("password")
	if VerifyPassword("password", string(dummyHash)) {
		t.Error("dummy hash should not match a common password")
	}
}
