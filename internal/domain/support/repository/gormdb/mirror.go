package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Conte777/SupportFlow/internal/domain/support/deps"
	"github.com/Conte777/SupportFlow/internal/domain/support/entities"
)

type mirrorRepository struct {
	db     *gorm.DB
	schema schemaGuard
}

// NewMirrorRepository creates a new message mirror repository
func NewMirrorRepository(db *gorm.DB) deps.MirrorRepository {
	return &mirrorRepository{db: db}
}

// Add stores the mapping, replacing any previous entry with the same
// admin-side key. Replacement is how an edit that cannot be applied in
// place re-points the mirror at the freshly sent copy.
func (r *mirrorRepository) Add(ctx context.Context, entry entities.MirrorEntry) error {
	if err := r.schema.ensure(r.db, &entities.MirrorEntry{}); err != nil {
		return err
	}

	entry.ID = 0
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "admin_chat_id"}, {Name: "admin_msg_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_chat_id", "user_msg_id", "thread_id",
			}),
		}).
		Create(&entry).Error
	if err != nil {
		return storage("add mirror entry", err)
	}
	return nil
}

// Get returns the entry for an admin-side message, or nil when absent
func (r *mirrorRepository) Get(ctx context.Context, adminChatID int64, adminMsgID int) (*entities.MirrorEntry, error) {
	if err := r.schema.ensure(r.db, &entities.MirrorEntry{}); err != nil {
		return nil, err
	}

	var entry entities.MirrorEntry
	err := r.db.WithContext(ctx).
		Where("admin_chat_id = ? AND admin_msg_id = ?", adminChatID, adminMsgID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storage("get mirror entry", err)
	}
	return &entry, nil
}

// Delete drops the entry for an admin-side message
func (r *mirrorRepository) Delete(ctx context.Context, adminChatID int64, adminMsgID int) error {
	if err := r.schema.ensure(r.db, &entities.MirrorEntry{}); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).
		Where("admin_chat_id = ? AND admin_msg_id = ?", adminChatID, adminMsgID).
		Delete(&entities.MirrorEntry{}).Error
	if err != nil {
		return storage("delete mirror entry", err)
	}
	return nil
}
