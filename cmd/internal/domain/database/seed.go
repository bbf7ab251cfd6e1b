package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
	"tenantnotes/cmd/internal/auth"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/utils"
)

const demoPassword = "password"

type demoTenant struct {
	slug  string
	name  string
	users []demoUser
}

type demoUser struct {
	email string
	role  entity.Role
}

var demoTenants = []demoTenant{
	{
		slug: "acme",
		name: "Acme Corp",
		users: []demoUser{
			{email: "admin@acme.test", role: entity.RoleAdmin},
			{email: "user@acme.test", role: entity.RoleMember},
		},
	},
	{
		slug: "globex",
		name: "Globex Corporation",
		users: []demoUser{
			{email: "admin@globex.test", role: entity.RoleAdmin},
			{email: "user@globex.test", role: entity.RoleMember},
		},
	},
}

// SeedDemoData creates the acme and globex demo tenants, each with one admin
// and one member. Existing rows are left untouched, so it is safe to run on
// every boot.
func SeedDemoData(ctx context.Context, db *gorm.DB) error {
	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dt := range demoTenants {
			tenant, err := seedTenant(tx, dt)
			if err != nil {
				return err
			}

			for _, du := range dt.users {
				if err = seedUser(tx, tenant, du, hash); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func seedTenant(tx *gorm.DB, dt demoTenant) (*entity.Tenant, error) {
	var tenant entity.Tenant
	err := tx.Where("slug = ?", dt.slug).First(&tenant).Error
	if err == nil {
		return &tenant, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("seed tenant %s: %w", dt.slug, err)
	}

	now := utils.NowUTC()
	tenant = entity.Tenant{
		Slug:         dt.slug,
		Name:         dt.name,
		Subscription: entity.SubscriptionFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = tx.Create(&tenant).Error; err != nil {
		return nil, fmt.Errorf("seed tenant %s: %w", dt.slug, err)
	}

	log.Infof("seeded tenant %s", dt.slug)
	return &tenant, nil
}

func seedUser(tx *gorm.DB, tenant *entity.Tenant, du demoUser, hash string) error {
	var count int64
	err := tx.Model(&entity.User{}).Where("email = ?", du.email).Count(&count).Error
	if err != nil {
		return fmt.Errorf("seed user %s: %w", du.email, err)
	}

	if count > 0 {
		return nil
	}

	now := utils.NowUTC()
	user := &entity.User{
		Email:        du.email,
		PasswordHash: hash,
		Role:         du.role,
		TenantID:     tenant.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = tx.Create(user).Error; err != nil {
		return fmt.Errorf("seed user %s: %w", du.email, err)
	}

	log.Infof("seeded user %s", du.email)
	return nil
}
