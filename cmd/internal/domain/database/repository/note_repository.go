package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"tenantnotes/cmd/internal/domain/entity"
)

// QuotaCheck decides whether a user owning 'owned' notes in 'tenant' may
// create another one. A non-nil error aborts the insert and is returned as-is.
type QuotaCheck func(tenant *entity.Tenant, owned int64) error

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

// FindAllByOwner lists the notes of one user inside one tenant, newest first.
func (d *DefaultNoteRepository) FindAllByOwner(ctx context.Context, tenantID, userID string) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := d.db.WithContext(ctx).
		Preload("User").
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) FindByID(ctx context.Context, id string) (*entity.Note, error) {
	var note entity.Note
	err := d.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (d *DefaultNoteRepository) CountByOwner(ctx context.Context, tenantID, userID string) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&entity.Note{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Count(&count).Error
	return count, err
}

// CreateWithinQuota locks the tenant row, recounts the owner's notes, runs
// 'check' and inserts the note, all inside one transaction. Two concurrent
// creates from the same user therefore cannot both pass the quota.
func (d *DefaultNoteRepository) CreateWithinQuota(ctx context.Context, note *entity.Note, check QuotaCheck) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tenant entity.Tenant
		err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			Where("id = ?", note.TenantID).
			First(&tenant).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTenantNotFound
		}
		if err != nil {
			return err
		}

		var owners int64
		err = tx.Model(&entity.User{}).
			Where("id = ? AND tenant_id = ?", note.UserID, note.TenantID).
			Count(&owners).Error
		if err != nil {
			return err
		}
		if owners == 0 {
			return ErrOwnerNotFound
		}

		var owned int64
		err = tx.Model(&entity.Note{}).
			Where("tenant_id = ? AND user_id = ?", note.TenantID, note.UserID).
			Count(&owned).Error
		if err != nil {
			return err
		}

		if err = check(&tenant, owned); err != nil {
			return err
		}
		return tx.Create(note).Error
	})
}

// Save persists an existing note. The owner and tenant columns are left out
// so an update can never move a note.
func (d *DefaultNoteRepository) Save(ctx context.Context, note *entity.Note) error {
	return d.db.WithContext(ctx).
		Model(note).
		Select("title", "content", "updated_at").
		Updates(note).Error
}

func (d *DefaultNoteRepository) Delete(ctx context.Context, note *entity.Note) error {
	return d.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", note.TenantID, note.UserID).
		Delete(note).Error
}
