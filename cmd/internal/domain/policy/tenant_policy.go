package policy

import (
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/utils/apierror"
)

// TenantPolicy guards the tenant settings endpoints. A tenant's existence is
// not secret, so a slug mismatch is reported as Forbidden rather than hidden.
type TenantPolicy struct{}

func NewTenantPolicy() *TenantPolicy {
	return &TenantPolicy{}
}

func (p *TenantPolicy) CanView(actor *entity.Identity, slug string) apierror.ErrorResponse {
	if err := RequireIdentity(actor); err != nil {
		return err
	}

	if actor.TenantSlug != slug {
		return apierror.NewForbidden("You can only view your own tenant")
	}
	return nil
}

func (p *TenantPolicy) CanUpdate(actor *entity.Identity, slug string) apierror.ErrorResponse {
	if err := RequireAdmin(actor, "Only admins can update tenant settings"); err != nil {
		return err
	}

	if actor.TenantSlug != slug {
		return apierror.NewForbidden("You can only update your own tenant")
	}
	return nil
}

func (p *TenantPolicy) CanUpgrade(actor *entity.Identity, slug string) apierror.ErrorResponse {
	if err := RequireAdmin(actor, "Only admins can upgrade subscriptions"); err != nil {
		return err
	}

	if actor.TenantSlug != slug {
		return apierror.NewForbidden("You can only upgrade your own tenant")
	}
	return nil
}

// CanTransition enforces free -> pro as the only tier change.
func (p *TenantPolicy) CanTransition(tenant *entity.Tenant, next entity.Subscription) apierror.ErrorResponse {
	if tenant == nil {
		return apierror.TenantNotFoundError
	}

	if !tenant.Subscription.CanTransitionTo(next) {
		return apierror.NewInvalidRequest("Downgrading from %s to %s is not supported", tenant.Subscription, next)
	}
	return nil
}
