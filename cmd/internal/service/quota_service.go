package service

import (
	"context"

	"github.com/labstack/gommon/log"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/domain/policy"
	"tenantnotes/cmd/internal/utils/apierror"
)

type NoteCounter interface {
	CountByOwner(ctx context.Context, tenantID, userID string) (int64, error)
}

// QuotaUsage is one user's standing against their tenant's note allowance.
type QuotaUsage struct {
	Owned   int64
	Limit   *int
	AtLimit bool
}

type QuotaService struct {
	TenantRepo TenantRepository
	Notes      NoteCounter
	Policy     *policy.QuotaPolicy
}

func NewQuotaService(tenantRepo TenantRepository, notes NoteCounter, quota *policy.QuotaPolicy) *QuotaService {
	return &QuotaService{
		TenantRepo: tenantRepo,
		Notes:      notes,
		Policy:     quota,
	}
}

// CheckNoteQuota reports whether 'userID' may create another note in
// 'tenantID' right now. Note creation re-runs the same check atomically.
func (q *QuotaService) CheckNoteQuota(ctx context.Context, tenantID, userID string) apierror.ErrorResponse {
	tenant, err := q.TenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		log.Errorf("failed to fetch tenant %s: %v", tenantID, err)
		return apierror.InternalServerError
	}

	if tenant == nil {
		return apierror.TenantNotFoundError
	}

	// Pro tenants never need the count
	if _, limited := q.Policy.Limit(tenant.Subscription); !limited {
		return nil
	}

	owned, err := q.Notes.CountByOwner(ctx, tenantID, userID)
	if err != nil {
		log.Errorf("failed to count notes of user %s: %v", userID, err)
		return apierror.InternalServerError
	}
	return q.Policy.Check(tenant, owned)
}

func (q *QuotaService) Usage(ctx context.Context, tenant *entity.Tenant, userID string) (*QuotaUsage, error) {
	owned, err := q.Notes.CountByOwner(ctx, tenant.ID, userID)
	if err != nil {
		return nil, err
	}

	usage := &QuotaUsage{Owned: owned}
	if limit, limited := q.Policy.Limit(tenant.Subscription); limited {
		usage.Limit = &limit
		usage.AtLimit = q.Policy.AtLimit(tenant.Subscription, owned)
	}
	return usage, nil
}
