package policy

import (
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/utils/apierror"
)

type InvitationPolicy struct{}

func NewInvitationPolicy() *InvitationPolicy {
	return &InvitationPolicy{}
}

func (p *InvitationPolicy) CanSend(actor *entity.Identity) apierror.ErrorResponse {
	return RequireAdmin(actor, "Only admins can send upgrade invitations")
}

func (p *InvitationPolicy) CanSendTo(actor *entity.Identity, target *entity.User) apierror.ErrorResponse {
	if target == nil {
		return apierror.UserNotFoundError
	}

	if target.TenantID != actor.TenantID {
		return apierror.NewForbidden("You can only send invitations to users in your own tenant")
	}
	return nil
}

func (p *InvitationPolicy) CanAccept(actor *entity.Identity) apierror.ErrorResponse {
	return RequireAdmin(actor, "Only admins can upgrade subscriptions. Please contact your admin.")
}
