package gormdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Conte777/SupportFlow/internal/domain/support/deps"
	"github.com/Conte777/SupportFlow/internal/domain/support/entities"
)

type pendingDeletionRepository struct {
	db     *gorm.DB
	schema schemaGuard
}

// NewPendingDeletionRepository creates a new deletion queue repository
func NewPendingDeletionRepository(db *gorm.DB) deps.PendingDeletionRepository {
	return &pendingDeletionRepository{db: db}
}

// Add schedules a message for deletion. The same message may be
// scheduled from more than one code path, so a duplicate is a no-op.
func (r *pendingDeletionRepository) Add(ctx context.Context, chatID int64, messageID int, sentAt time.Time, byBot bool) error {
	if err := r.schema.ensure(r.db, &entities.PendingDeletion{}); err != nil {
		return err
	}

	row := entities.PendingDeletion{
		ChatID: chatID,
		MsgID:  messageID,
		SentAt: sentAt.UTC(),
		ByBot:  byBot,
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	if err != nil {
		return storage("add pending deletion", err)
	}
	return nil
}

// ListDue returns entries sent before the given time with the given
// authorship flag
func (r *pendingDeletionRepository) ListDue(ctx context.Context, before time.Time, byBot bool) ([]entities.PendingDeletion, error) {
	if err := r.schema.ensure(r.db, &entities.PendingDeletion{}); err != nil {
		return nil, err
	}

	var out []entities.PendingDeletion
	err := r.db.WithContext(ctx).
		Where("sent_at <= ? AND by_bot = ?", before.UTC(), byBot).
		Find(&out).Error
	if err != nil {
		return nil, storage("list due deletions", err)
	}
	return out, nil
}

// Remove deletes the given entries from the queue
func (r *pendingDeletionRepository) Remove(ctx context.Context, entries []entities.PendingDeletion) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.schema.ensure(r.db, &entities.PendingDeletion{}); err != nil {
		return err
	}

	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&entities.PendingDeletion{}).Error
	if err != nil {
		return storage("remove pending deletions", err)
	}
	return nil
}
