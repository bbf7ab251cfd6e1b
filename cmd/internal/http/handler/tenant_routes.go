package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"tenantnotes/cmd/internal/contract"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/apierror"
)

type TenantService interface {
	GetTenant(ctx context.Context, actor *entity.Identity, slug string) (*contract.TenantResponse, apierror.ErrorResponse)
	UpdateTenant(ctx context.Context, actor *entity.Identity, slug string, req *contract.UpdateTenantRequest) (*contract.TenantSummary, apierror.ErrorResponse)
	UpgradeTenant(ctx context.Context, actor *entity.Identity, slug string) (*contract.TenantSummary, apierror.ErrorResponse)
}

type DefaultTenantRoute struct {
	TenantService TenantService
}

func NewTenantDefault(tenantService TenantService) *DefaultTenantRoute {
	return &DefaultTenantRoute{TenantService: tenantService}
}

func (t *DefaultTenantRoute) GetTenant(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	tenant, apierr := t.TenantService.GetTenant(c.Request().Context(), identity, c.Param("slug"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"tenant": tenant})
}

func (t *DefaultTenantRoute) UpdateTenant(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.UpdateTenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	tenant, apierr := t.TenantService.UpdateTenant(c.Request().Context(), identity, c.Param("slug"), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Tenant subscription updated successfully",
		"tenant":  tenant,
	})
}

func (t *DefaultTenantRoute) UpgradeTenant(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	tenant, apierr := t.TenantService.UpgradeTenant(c.Request().Context(), identity, c.Param("slug"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Subscription upgraded successfully",
		"tenant":  tenant,
	})
}
