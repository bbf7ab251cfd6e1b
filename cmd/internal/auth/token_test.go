package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"tenantnotes/cmd/internal/domain/entity"
)

func testIdentity() *entity.Identity {
	return &entity.Identity{
		UserID:     "user-1",
		Email:      "admin@acme.test",
		Role:       entity.RoleAdmin,
		TenantID:   "tenant-1",
		TenantSlug: "acme",
	}
}

func newTestCodec(t *testing.T) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec("test-secret", 0)
	if err != nil {
		t.Fatalf("NewTokenCodec failed: %v", err)
	}
	return codec
}

func TestNewTokenCodec_RequiresSecret(t *testing.T) {
	for _, secret := range []string{"", "   "} {
		if _, err := NewTokenCodec(secret, time.Hour); err != ErrEmptySecret {
			t.Errorf("NewTokenCodec(%q) error = %v, want ErrEmptySecret", secret, err)
		}
	}
}

func TestNewTokenCodec_DefaultTTL(t *testing.T) {
	codec := newTestCodec(t)
	if codec.TTL() != 24*time.Hour {
		t.Errorf("TTL = %v, want 24h", codec.TTL())
	}
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	want := testIdentity()

	token, exp, err := codec.Issue(want)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if d := time.Until(exp); d < 23*time.Hour || d > 24*time.Hour {
		t.Errorf("expiry in %v, want ~24h", d)
	}

	got, ok := codec.Validate(token)
	if !ok {
		t.Fatal("Validate rejected a freshly issued token")
	}
	if *got != *want {
		t.Errorf("Validate = %+v, want %+v", *got, *want)
	}

	gotExp, ok := codec.ExpiresAt(token)
	if !ok || gotExp.Unix() != exp.Unix() {
		t.Errorf("ExpiresAt = %v (%v), want %v", gotExp, ok, exp)
	}
}

func TestTokenCodec_RejectsExpired(t *testing.T) {
	codec := newTestCodec(t)
	issuedAt := time.Now().Add(-25 * time.Hour)
	codec.now = func() time.Time { return issuedAt }

	token, _, err := codec.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	codec.now = time.Now
	if id, ok := codec.Validate(token); ok || id != nil {
		t.Errorf("Validate accepted an expired token: %+v", id)
	}
}

func TestTokenCodec_RejectsTampered(t *testing.T) {
	codec := newTestCodec(t)
	token, _, _ := codec.Issue(testIdentity())

	other, _ := NewTokenCodec("another-secret", 0)
	forged, _, _ := other.Issue(testIdentity())

	parts := strings.Split(token, ".")
	flipped := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	// Swap in a payload that claims a different tenant but keep the signature.
	evil := testIdentity()
	evil.TenantID = "tenant-2"
	evilToken, _, _ := codec.Issue(evil)
	swapped := parts[0] + "." + strings.Split(evilToken, ".")[1] + "." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "bad signature", token: flipped},
		{name: "payload swap", token: swapped},
		{name: "other secret", token: forged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if id, ok := codec.Validate(tt.token); ok || id != nil {
				t.Errorf("Validate(%q) = %+v, want rejection", tt.token, id)
			}
		})
	}
}

func TestTokenCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec := newTestCodec(t)

	claims := &Claims{
		UserID: "user-1", Email: "a@b.test", Role: "admin", TenantID: "t", TenantSlug: "s",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing with none failed: %v", err)
	}
	if _, ok := codec.Validate(none); ok {
		t.Error("Validate accepted an unsigned token")
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing with HS512 failed: %v", err)
	}
	if _, ok := codec.Validate(hs512); ok {
		t.Error("Validate accepted an HS512 token")
	}
}

func TestTokenCodec_RejectsIncompleteClaims(t *testing.T) {
	codec := newTestCodec(t)

	tests := []struct {
		name   string
		mutate func(id *entity.Identity)
	}{
		{name: "no user", mutate: func(id *entity.Identity) { id.UserID = "" }},
		{name: "no tenant", mutate: func(id *entity.Identity) { id.TenantID = "" }},
		{name: "no slug", mutate: func(id *entity.Identity) { id.TenantSlug = "" }},
		{name: "unknown role", mutate: func(id *entity.Identity) { id.Role = "owner" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := testIdentity()
			tt.mutate(id)
			token, _, err := codec.Issue(id)
			if err != nil {
				t.Fatalf("Issue failed: %v", err)
			}
			if _, ok := codec.Validate(token); ok {
				t.Error("Validate accepted a token with incomplete claims")
			}
		})
	}
}

func TestTokenCodec_RejectsMissingExpiry(t *testing.T) {
	codec := newTestCodec(t)
	claims := &Claims{UserID: "user-1", Email: "a@b.test", Role: "admin", TenantID: "t", TenantSlug: "s"}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}
	if _, ok := codec.Validate(token); ok {
		t.Error("Validate accepted a token without exp")
	}
}
