package policy

import (
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/utils/apierror"
)

// DefaultFreeNoteLimit is how many notes each user of a free tenant may own.
const DefaultFreeNoteLimit = 3

// QuotaPolicy caps notes per user, not per tenant: every member of a free
// tenant gets their own allowance. Pro tenants are never checked.
type QuotaPolicy struct {
	FreeNoteLimit int
}

func NewQuotaPolicy(freeNoteLimit int) *QuotaPolicy {
	if freeNoteLimit <= 0 {
		freeNoteLimit = DefaultFreeNoteLimit
	}
	return &QuotaPolicy{FreeNoteLimit: freeNoteLimit}
}

// Limit returns the per-user ceiling for 'sub', or false when there is none.
func (p *QuotaPolicy) Limit(sub entity.Subscription) (int, bool) {
	if sub == entity.SubscriptionPro {
		return 0, false
	}
	return p.FreeNoteLimit, true
}

// Check decides whether a user who already owns 'owned' notes may create one more.
func (p *QuotaPolicy) Check(tenant *entity.Tenant, owned int64) apierror.ErrorResponse {
	if tenant == nil {
		return apierror.TenantNotFoundError
	}

	limit, limited := p.Limit(tenant.Subscription)
	if !limited {
		return nil
	}

	if owned >= int64(limit) {
		return apierror.NewQuotaExceeded(limit)
	}
	return nil
}

// AtLimit reports whether 'owned' notes already exhaust the allowance.
func (p *QuotaPolicy) AtLimit(sub entity.Subscription, owned int64) bool {
	limit, limited := p.Limit(sub)
	return limited && owned >= int64(limit)
}
