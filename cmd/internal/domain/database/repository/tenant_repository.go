package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"tenantnotes/cmd/internal/domain/entity"
)

type DefaultTenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *DefaultTenantRepository {
	return &DefaultTenantRepository{db: db}
}

func (r *DefaultTenantRepository) FindByID(ctx context.Context, id string) (*entity.Tenant, error) {
	var tenant entity.Tenant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *DefaultTenantRepository) FindBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	var tenant entity.Tenant
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// CountNotes counts every note in the tenant, whoever owns it.
func (r *DefaultTenantRepository) CountNotes(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Note{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

// UpdateSubscription only touches the subscription and timestamp columns so
// the slug can never be rewritten through this path.
func (r *DefaultTenantRepository) UpdateSubscription(ctx context.Context, tenant *entity.Tenant, sub entity.Subscription, now int64) error {
	err := r.db.WithContext(ctx).
		Model(tenant).
		Select("subscription", "updated_at").
		Updates(&entity.Tenant{Subscription: sub, UpdatedAt: now}).Error
	if err != nil {
		return err
	}

	tenant.Subscription = sub
	tenant.UpdatedAt = now
	return nil
}

func (r *DefaultTenantRepository) Create(ctx context.Context, tenant *entity.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}
