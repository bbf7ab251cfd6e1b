package utils

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/utils/apierror"
)

const IdentityContextKey = "identity"

// GetIdentityFromContext returns the caller resolved by the auth middleware,
// or an Unauthenticated error for anonymous requests.
func GetIdentityFromContext(c echo.Context) (*entity.Identity, apierror.ErrorResponse) {
	val := c.Get(IdentityContextKey)
	if val == nil {
		return nil, apierror.UnauthorizedError
	}

	identity, ok := val.(*entity.Identity)
	if !ok {
		log.Warnf("expected identity type at '%s' context key, got %T", IdentityContextKey, val)
		return nil, apierror.InternalServerError
	}
	return identity, nil
}
