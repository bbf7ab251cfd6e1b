package service

import (
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/domain/policy"
	"tenantnotes/cmd/internal/utils/apierror"
)

// userUpdater acts as a "Change Set" context.
// It accumulates errors and tracks if a save is actually needed.
type userUpdater struct {
	actor  *entity.Identity
	target *entity.User
	policy *policy.UserPolicy

	// State
	err   apierror.ErrorResponse
	dirty bool
	role  entity.Role
}

// setRole runs the target checks even when the role is unchanged, so a
// no-op request against another tenant's user is still refused.
func (u *userUpdater) setRole(newRole entity.Role) {
	if u.err != nil {
		return
	}

	if err := u.policy.CanChangeRoleOf(u.actor, u.target); err != nil {
		u.err = err
		return
	}

	u.role = u.target.Role
	if u.target.Role == newRole {
		return
	}

	u.role = newRole
	u.dirty = true
}
