package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is owned by a single user. TenantID is a copy of the owner's tenant
// kept on the row so every lookup can be scoped without a join.
type Note struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"not null"`
	UserID    string `gorm:"not null;index:idx_notes_tenant_user,priority:2;type:varchar(36)"` // References: users(id)
	TenantID  string `gorm:"not null;index:idx_notes_tenant_user,priority:1;type:varchar(36)"` // References: tenants(id)
	CreatedAt int64  `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt int64  `gorm:"not null;autoUpdateTime:false"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (n *Note) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
