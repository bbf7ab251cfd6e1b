package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User belongs to exactly one tenant for its whole lifetime.
// Emails are unique across every tenant, not only inside one.
type User struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"not null;type:varchar(16);default:member"`
	TenantID     string `gorm:"not null;index;type:varchar(36)"`
	CreatedAt    int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Tenant *Tenant `gorm:"foreignKey:TenantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
