package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/utils"
)

type IdentityResolver interface {
	Resolve(req *http.Request) (*entity.Identity, bool)
}

// NewAuthMiddleware resolves the caller on every request. Anonymous
// requests pass through untouched; handlers decide whether they need an
// identity via utils.GetIdentityFromContext.
func NewAuthMiddleware(resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if identity, ok := resolver.Resolve(c.Request()); ok {
				c.Set(utils.IdentityContextKey, identity)
			}
			return next(c)
		}
	}
}
