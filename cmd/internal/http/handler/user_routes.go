package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"tenantnotes/cmd/internal/contract"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/apierror"
)

type UserService interface {
	GetUsers(ctx context.Context, actor *entity.Identity) ([]*contract.UserResponse, apierror.ErrorResponse)
	CreateUser(ctx context.Context, actor *entity.Identity, req *contract.CreateUserRequest) (*contract.UserResponse, apierror.ErrorResponse)
	UpdateUser(ctx context.Context, actor *entity.Identity, targetID string, req *contract.UpdateUserRequest) (*contract.UserResponse, apierror.ErrorResponse)
	DeleteUser(ctx context.Context, actor *entity.Identity, targetID string) apierror.ErrorResponse
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) GetUsers(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	users, apierr := u.UserService.GetUsers(c.Request().Context(), identity)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"users": users}
	return c.JSON(http.StatusOK, &resp)
}

func (u *DefaultUserRoute) CreateUser(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, apierr := u.UserService.CreateUser(c.Request().Context(), identity, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User invited successfully",
		"user":    user,
	})
}

func (u *DefaultUserRoute) UpdateUser(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	targetID := strings.TrimSpace(c.Param("id"))
	if targetID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	var req contract.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, apierr := u.UserService.UpdateUser(c.Request().Context(), identity, targetID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

func (u *DefaultUserRoute) DeleteUser(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	targetID := strings.TrimSpace(c.Param("id"))
	if targetID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	if apierr := u.UserService.DeleteUser(c.Request().Context(), identity, targetID); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
