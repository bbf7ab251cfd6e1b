package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"tenantnotes/cmd/internal/contract"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/apierror"
)

type AuthService interface {
	Login(ctx context.Context, req *contract.LoginRequest) (*contract.LoginResponse, apierror.ErrorResponse)
	Me(actor *entity.Identity) *contract.SessionUser
	TokenTTL() time.Duration
}

type DefaultAuthRoute struct {
	AuthService AuthService
	Cookies     utils.CookieConfig
}

func NewAuthDefault(authService AuthService, cookies utils.CookieConfig) *DefaultAuthRoute {
	return &DefaultAuthRoute{AuthService: authService, Cookies: cookies}
}

func (a *DefaultAuthRoute) Login(c echo.Context) error {
	var req contract.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := a.AuthService.Login(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	utils.SetTokenCookie(c.Response(), resp.Token, a.AuthService.TokenTTL(), a.Cookies)
	return c.JSON(http.StatusOK, resp)
}

func (a *DefaultAuthRoute) Logout(c echo.Context) error {
	utils.ClearTokenCookie(c.Response(), a.Cookies)
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

func (a *DefaultAuthRoute) Me(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": a.AuthService.Me(identity)})
}
