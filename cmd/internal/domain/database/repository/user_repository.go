package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"tenantnotes/cmd/internal/domain/entity"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

// FindAllByTenant lists the tenant's users, newest first.
func (u *DefaultUserRepository) FindAllByTenant(ctx context.Context, tenantID string) ([]*entity.User, error) {
	var users []*entity.User
	err := u.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (u *DefaultUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := u.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail loads the user together with their tenant.
func (u *DefaultUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := u.db.WithContext(ctx).
		Preload("Tenant").
		Where("email = ?", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindFirstAdmin returns the oldest admin of the tenant, if any.
func (u *DefaultUserRepository) FindFirstAdmin(ctx context.Context, tenantID string) (*entity.User, error) {
	var user entity.User
	err := u.db.WithContext(ctx).
		Where("tenant_id = ? AND role = ?", tenantID, entity.RoleAdmin).
		Order("created_at ASC").
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create returns gorm.ErrDuplicatedKey when the email is already taken.
func (u *DefaultUserRepository) Create(ctx context.Context, user *entity.User) error {
	return u.db.WithContext(ctx).Create(user).Error
}

func (u *DefaultUserRepository) UpdateRole(ctx context.Context, user *entity.User, role entity.Role, now int64) error {
	err := u.db.WithContext(ctx).
		Model(user).
		Select("role", "updated_at").
		Updates(&entity.User{Role: role, UpdatedAt: now}).Error
	if err != nil {
		return err
	}

	user.Role = role
	user.UpdatedAt = now
	return nil
}

// Delete removes the user and every note they own in one transaction.
func (u *DefaultUserRepository) Delete(ctx context.Context, user *entity.User) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND tenant_id = ?", user.ID, user.TenantID).
			Delete(&entity.Note{}).Error
		if err != nil {
			return err
		}

		err = tx.Where("user_id = ?", user.ID).Delete(&entity.Connection{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}
