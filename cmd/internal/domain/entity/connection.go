package entity

// Connection is a live websocket connection registered by an authenticated
// user. It only lives as long as the token used to open it.
type Connection struct {
	ConnectionID string `gorm:"primaryKey;autoIncrement:false"`
	UserID       string `gorm:"not null;index;type:varchar(36)"`
	TenantID     string `gorm:"not null;index;type:varchar(36)"`
	ExpiresAt    int64  `gorm:"not null;index"`
	CreatedAt    int64  `gorm:"not null;autoCreateTime:false"`
}
