package policy

import (
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/utils/apierror"
)

// UserPolicy encapsulates all business rules for user manipulation.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
type UserPolicy struct{}

func NewUserPolicy() *UserPolicy {
	return &UserPolicy{}
}

func (p *UserPolicy) CanListUsers(actor *entity.Identity) apierror.ErrorResponse {
	return RequireAdmin(actor, "Only admins can view user list")
}

func (p *UserPolicy) CanCreateUser(actor *entity.Identity) apierror.ErrorResponse {
	return RequireAdmin(actor, "Only admins can invite users")
}

// CanChangeRole covers the checks that do not need the target record.
// Self-targeting is refused before the payload is even looked at.
func (p *UserPolicy) CanChangeRole(actor *entity.Identity, targetID string) apierror.ErrorResponse {
	if err := RequireAdmin(actor, "Only admins can update users"); err != nil {
		return err
	}

	if targetID == actor.UserID {
		return apierror.NewInvalidRequest("You cannot change your own role")
	}
	return nil
}

// CanChangeRoleOf runs once 'target' has been loaded.
func (p *UserPolicy) CanChangeRoleOf(actor *entity.Identity, target *entity.User) apierror.ErrorResponse {
	return p.checkTarget(actor, target, "You can only update users from your own tenant")
}

func (p *UserPolicy) CanDelete(actor *entity.Identity, targetID string) apierror.ErrorResponse {
	if err := RequireAdmin(actor, "Only admins can delete users"); err != nil {
		return err
	}

	if targetID == actor.UserID {
		return apierror.NewInvalidRequest("You cannot delete yourself")
	}
	return nil
}

func (p *UserPolicy) CanDeleteTarget(actor *entity.Identity, target *entity.User) apierror.ErrorResponse {
	return p.checkTarget(actor, target, "You can only delete users from your own tenant")
}

func (p *UserPolicy) checkTarget(actor *entity.Identity, target *entity.User, crossTenantMsg string) apierror.ErrorResponse {
	if target == nil {
		return apierror.UserNotFoundError
	}

	if target.TenantID != actor.TenantID {
		return apierror.NewForbidden(crossTenantMsg)
	}

	if target.ID == actor.UserID {
		return apierror.NewInvalidRequest("You cannot modify your own account")
	}
	return nil
}
