package auth

import (
	"net/http"
	"strings"

	"tenantnotes/cmd/internal/domain/entity"
)

// CookieName is the cookie the login endpoint stores the session token in.
const CookieName = "token"

// TokenValidator is satisfied by *TokenCodec.
type TokenValidator interface {
	Validate(token string) (*entity.Identity, bool)
}

// Resolver turns an incoming request into an identity.
type Resolver struct {
	tokens TokenValidator
}

func NewResolver(tokens TokenValidator) *Resolver {
	return &Resolver{tokens: tokens}
}

// Resolve returns (nil, false) for anonymous requests as well as for
// requests carrying an unusable token.
func (r *Resolver) Resolve(req *http.Request) (*entity.Identity, bool) {
	token := TokenFromRequest(req)
	if token == "" {
		return nil, false
	}
	return r.tokens.Validate(token)
}

// TokenFromRequest looks at the Authorization header first and falls back
// to the session cookie.
func TokenFromRequest(req *http.Request) string {
	header := strings.TrimSpace(req.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		if token := strings.TrimSpace(header[7:]); token != "" {
			return token
		}
	}

	cookie, err := req.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}
