package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"tenantnotes/cmd/internal/contract"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/domain/policy"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/apierror"
)

type TenantRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
	CountNotes(ctx context.Context, tenantID string) (int64, error)
	UpdateSubscription(ctx context.Context, tenant *entity.Tenant, sub entity.Subscription, now int64) error
}

type DefaultTenantService struct {
	TenantRepo TenantRepository
	Quota      *QuotaService
	Validate   *validator.Validate
	Policy     *policy.TenantPolicy
}

func NewTenantService(tenantRepo TenantRepository, quota *QuotaService, validate *validator.Validate) *DefaultTenantService {
	return &DefaultTenantService{
		TenantRepo: tenantRepo,
		Quota:      quota,
		Validate:   validate,
		Policy:     policy.NewTenantPolicy(),
	}
}

func (s *DefaultTenantService) GetTenant(ctx context.Context, actor *entity.Identity, slug string) (*contract.TenantResponse, apierror.ErrorResponse) {
	if err := s.Policy.CanView(actor, slug); err != nil {
		return nil, err
	}

	tenant, apierr := s.findBySlug(ctx, slug)
	if apierr != nil {
		return nil, apierr
	}

	total, err := s.TenantRepo.CountNotes(ctx, tenant.ID)
	if err != nil {
		log.Errorf("failed to count notes of tenant %s: %v", tenant.ID, err)
		return nil, apierror.InternalServerError
	}

	usage, err := s.Quota.Usage(ctx, tenant, actor.UserID)
	if err != nil {
		log.Errorf("failed to compute quota usage of user %s: %v", actor.UserID, err)
		return nil, apierror.InternalServerError
	}

	return &contract.TenantResponse{
		ID:            tenant.ID,
		Slug:          tenant.Slug,
		Name:          tenant.Name,
		Subscription:  string(tenant.Subscription),
		NoteCount:     total,
		UserNoteCount: usage.Owned,
		NoteLimit:     usage.Limit,
		IsAtLimit:     usage.AtLimit,
	}, nil
}

func (s *DefaultTenantService) UpdateTenant(ctx context.Context, actor *entity.Identity, slug string, req *contract.UpdateTenantRequest) (*contract.TenantSummary, apierror.ErrorResponse) {
	if err := s.Policy.CanUpdate(actor, slug); err != nil {
		return nil, err
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	tenant, apierr := s.findBySlug(ctx, slug)
	if apierr != nil {
		return nil, apierr
	}
	return s.changeSubscription(ctx, tenant, entity.Subscription(req.Subscription))
}

func (s *DefaultTenantService) UpgradeTenant(ctx context.Context, actor *entity.Identity, slug string) (*contract.TenantSummary, apierror.ErrorResponse) {
	if err := s.Policy.CanUpgrade(actor, slug); err != nil {
		return nil, err
	}

	tenant, apierr := s.findBySlug(ctx, slug)
	if apierr != nil {
		return nil, apierr
	}
	return s.changeSubscription(ctx, tenant, entity.SubscriptionPro)
}

// UpgradeOwnTenant moves the caller's tenant to pro. Callers are expected to
// have checked the caller's role already.
func (s *DefaultTenantService) UpgradeOwnTenant(ctx context.Context, actor *entity.Identity) (*contract.TenantSummary, apierror.ErrorResponse) {
	tenant, err := s.TenantRepo.FindByID(ctx, actor.TenantID)
	if err != nil {
		log.Errorf("failed to fetch tenant %s: %v", actor.TenantID, err)
		return nil, apierror.InternalServerError
	}
	return s.changeSubscription(ctx, tenant, entity.SubscriptionPro)
}

func (s *DefaultTenantService) changeSubscription(ctx context.Context, tenant *entity.Tenant, next entity.Subscription) (*contract.TenantSummary, apierror.ErrorResponse) {
	if err := s.Policy.CanTransition(tenant, next); err != nil {
		return nil, err
	}

	if tenant.Subscription != next {
		err := s.TenantRepo.UpdateSubscription(ctx, tenant, next, utils.NowUTC())
		if err != nil {
			log.Errorf("failed to update subscription of tenant %s: %v", tenant.ID, err)
			return nil, apierror.InternalServerError
		}
		log.Infof("tenant %s moved to %s", tenant.Slug, next)
	}
	return toTenantSummary(tenant), nil
}

func (s *DefaultTenantService) findBySlug(ctx context.Context, slug string) (*entity.Tenant, apierror.ErrorResponse) {
	tenant, err := s.TenantRepo.FindBySlug(ctx, slug)
	if err != nil {
		log.Errorf("failed to fetch tenant %s: %v", slug, err)
		return nil, apierror.InternalServerError
	}

	if tenant == nil {
		return nil, apierror.TenantNotFoundError
	}
	return tenant, nil
}

func toTenantSummary(tenant *entity.Tenant) *contract.TenantSummary {
	return &contract.TenantSummary{
		ID:           tenant.ID,
		Slug:         tenant.Slug,
		Name:         tenant.Name,
		Subscription: string(tenant.Subscription),
	}
}
