package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"tenantnotes/cmd/internal/auth"
	"tenantnotes/cmd/internal/domain/entity"
	authmw "tenantnotes/cmd/internal/http/middleware"
	"tenantnotes/cmd/internal/infrastructure/aws/websocket"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/apierror"
)

type WebSocketService interface {
	RegisterConnection(ctx context.Context, actor *entity.Identity, connID string, expiresAt time.Time) apierror.ErrorResponse
	RemoveConnection(ctx context.Context, connectionID string)
	RemoveUserConnection(ctx context.Context, actor *entity.Identity, connectionID string)
}

type TokenInspector interface {
	ExpiresAt(token string) (time.Time, bool)
}

// DefaultWSRoute receives the connect and disconnect callbacks of the
// websocket gateway.
type DefaultWSRoute struct {
	WSService WebSocketService
	Tokens    TokenInspector
}

func NewWSDefault(wsService WebSocketService, tokens TokenInspector) *DefaultWSRoute {
	return &DefaultWSRoute{WSService: wsService, Tokens: tokens}
}

func (h *DefaultWSRoute) HandleConnect(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	connID := strings.TrimSpace(c.Request().Header.Get(websocket.HeaderConnectionID))
	if connID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("connectionId"))
	}

	expiresAt, ok := h.Tokens.ExpiresAt(auth.TokenFromRequest(c.Request()))
	if !ok {
		return c.JSON(http.StatusUnauthorized, apierror.UnauthorizedError)
	}

	if apierr := h.WSService.RegisterConnection(c.Request().Context(), identity, connID, expiresAt); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

// HandleDisconnect trusts the connection id only on verified gateway calls.
// Anyone else can only drop a connection they registered themselves.
func (h *DefaultWSRoute) HandleDisconnect(c echo.Context) error {
	connID := strings.TrimSpace(c.Request().Header.Get(websocket.HeaderConnectionID))

	if authmw.IsGatewayVerified(c) {
		if connID != "" {
			h.WSService.RemoveConnection(c.Request().Context(), connID)
		}
		return c.NoContent(http.StatusOK)
	}

	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	if connID != "" {
		h.WSService.RemoveUserConnection(c.Request().Context(), identity, connID)
	}
	return c.NoContent(http.StatusOK)
}
