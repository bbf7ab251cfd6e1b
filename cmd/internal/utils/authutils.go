package utils

import (
	"net/http"
	"time"

	"tenantnotes/cmd/internal/auth"
)

// CookieConfig holds cookie configuration.
type CookieConfig struct {
	Path     string
	Secure   bool
	SameSite http.SameSite
}

func DefaultCookieConfig(secure bool) CookieConfig {
	return CookieConfig{
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetTokenCookie stores the session token in an HttpOnly cookie that lives
// exactly as long as the token.
func SetTokenCookie(w http.ResponseWriter, token string, ttl time.Duration, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     cfg.Path,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

func ClearTokenCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     cfg.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}
