package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subscription string

const (
	SubscriptionFree Subscription = "free"
	SubscriptionPro  Subscription = "pro"
)

func (s Subscription) IsValid() bool {
	return s == SubscriptionFree || s == SubscriptionPro
}

// CanTransitionTo reports whether a tenant on 's' may move to 'next'.
// Staying on the same tier is always allowed; pro is terminal.
func (s Subscription) CanTransitionTo(next Subscription) bool {
	if s == next {
		return true
	}
	return s == SubscriptionFree && next == SubscriptionPro
}

// Tenant is an isolated organization. Its slug is globally unique and is
// never written again after creation.
type Tenant struct {
	ID           string       `gorm:"primaryKey;type:varchar(36)"`
	Slug         string       `gorm:"not null;uniqueIndex"`
	Name         string       `gorm:"not null"`
	Subscription Subscription `gorm:"not null;type:varchar(16);default:free"`
	CreatedAt    int64        `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64        `gorm:"not null;autoUpdateTime:false"`
}

func (t *Tenant) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
