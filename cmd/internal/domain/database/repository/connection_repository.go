package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"tenantnotes/cmd/internal/domain/entity"
)

type DefaultConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *DefaultConnectionRepository {
	return &DefaultConnectionRepository{db: db}
}

func (c *DefaultConnectionRepository) Save(ctx context.Context, conn *entity.Connection) error {
	return c.db.WithContext(ctx).Save(conn).Error
}

func (c *DefaultConnectionRepository) FindByID(ctx context.Context, connID string) (*entity.Connection, error) {
	var conn entity.Connection
	err := c.db.WithContext(ctx).
		Where("connection_id = ?", connID).
		First(&conn).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// DeleteForUser removes 'connID' only when it belongs to 'userID'.
func (c *DefaultConnectionRepository) DeleteForUser(ctx context.Context, connID, userID string) error {
	return c.db.WithContext(ctx).
		Where("connection_id = ? AND user_id = ?", connID, userID).
		Delete(&entity.Connection{}).Error
}

func (c *DefaultConnectionRepository) Delete(ctx context.Context, connID string) error {
	return c.db.WithContext(ctx).
		Where("connection_id = ?", connID).
		Delete(&entity.Connection{}).Error
}

// FindByUserID returns the ids of the user's connections that have not expired yet.
func (c *DefaultConnectionRepository) FindByUserID(ctx context.Context, userID string, now int64) ([]string, error) {
	var ids []string
	result := c.db.WithContext(ctx).
		Model(&entity.Connection{}).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Pluck("connection_id", &ids)

	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}

func (c *DefaultConnectionRepository) FindExpired(ctx context.Context, now int64) ([]*entity.Connection, error) {
	var conns []*entity.Connection
	err := c.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}
