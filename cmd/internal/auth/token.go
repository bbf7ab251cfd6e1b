package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"tenantnotes/cmd/internal/domain/entity"
)

// DefaultTokenTTL is how long a session token stays valid after login.
const DefaultTokenTTL = 24 * time.Hour

var ErrEmptySecret = errors.New("token signing secret must not be empty")

// Claims is the payload carried inside a session token.
type Claims struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	TenantID   string `json:"tenantId"`
	TenantSlug string `json:"tenantSlug"`
	jwt.RegisteredClaims
}

// TokenCodec issues and validates HS256 session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec refuses to build a codec without a secret. A zero ttl falls
// back to DefaultTokenTTL.
func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for 'id' and returns it alongside its expiry.
func (c *TokenCodec) Issue(id *entity.Identity) (string, time.Time, error) {
	now := c.now()
	exp := now.Add(c.ttl)

	claims := &Claims{
		UserID:     id.UserID,
		Email:      id.Email,
		Role:       string(id.Role),
		TenantID:   id.TenantID,
		TenantSlug: id.TenantSlug,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Validate returns the identity carried by 'token'. Every failure (bad
// signature, wrong algorithm, expiry, garbage input, incomplete claims)
// yields the same (nil, false).
func (c *TokenCodec) Validate(token string) (*entity.Identity, bool) {
	if token == "" {
		return nil, false
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}

	id := &entity.Identity{
		UserID:     claims.UserID,
		Email:      claims.Email,
		Role:       entity.Role(claims.Role),
		TenantID:   claims.TenantID,
		TenantSlug: claims.TenantSlug,
	}

	if id.UserID == "" || id.TenantID == "" || id.TenantSlug == "" || !id.Role.IsValid() {
		return nil, false
	}
	return id, true
}

// ExpiresAt reads the expiry of an already validated token.
func (c *TokenCodec) ExpiresAt(token string) (time.Time, bool) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (c *TokenCodec) keyFunc(*jwt.Token) (any, error) {
	return c.secret, nil
}
