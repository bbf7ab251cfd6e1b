package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"tenantnotes/cmd/internal/contract"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/service"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/apierror"
)

type InvitationService interface {
	SendInvitation(ctx context.Context, actor *entity.Identity, targetID string, req *contract.SendInvitationRequest) (*contract.InvitationResponse, apierror.ErrorResponse)
	GetInvitations(ctx context.Context, actor *entity.Identity) ([]*contract.PendingInvitation, apierror.ErrorResponse)
	RespondInvitation(ctx context.Context, actor *entity.Identity, req *contract.RespondInvitationRequest) (*service.InvitationResult, apierror.ErrorResponse)
}

type DefaultInvitationRoute struct {
	InvitationService InvitationService
}

func NewInvitationDefault(invitationService InvitationService) *DefaultInvitationRoute {
	return &DefaultInvitationRoute{InvitationService: invitationService}
}

func (i *DefaultInvitationRoute) SendInvitation(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	targetID := strings.TrimSpace(c.Param("id"))
	if targetID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	var req contract.SendInvitationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	invitation, apierr := i.InvitationService.SendInvitation(c.Request().Context(), identity, targetID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Upgrade invitation sent successfully",
		"invitation": invitation,
	})
}

func (i *DefaultInvitationRoute) GetInvitations(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	invitations, apierr := i.InvitationService.GetInvitations(c.Request().Context(), identity)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"invitations": invitations})
}

func (i *DefaultInvitationRoute) RespondInvitation(c echo.Context) error {
	identity, cerr := utils.GetIdentityFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.RespondInvitationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	result, apierr := i.InvitationService.RespondInvitation(c.Request().Context(), identity, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"message": result.Message}
	if result.Tenant != nil {
		resp["tenant"] = result.Tenant
	}
	return c.JSON(http.StatusOK, &resp)
}
