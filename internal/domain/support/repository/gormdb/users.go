package gormdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Conte777/SupportFlow/internal/domain/support/deps"
	"github.com/Conte777/SupportFlow/internal/domain/support/dto"
	"github.com/Conte777/SupportFlow/internal/domain/support/entities"
)

// DefaultStaleThreshold is how old a user's last message must be before
// the record counts as stale
const DefaultStaleThreshold = 14 * 24 * time.Hour

type userRepository struct {
	db     *gorm.DB
	schema schemaGuard
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) deps.UserRepository {
	return &userRepository{db: db}
}

// Add replaces any existing record for the user identity
// (delete-then-insert in one transaction) and returns the stored snapshot.
func (r *userRepository) Add(ctx context.Context, user dto.User, msg dto.Message, threadID int, firstReplySent, canMessage bool) (*entities.UserRecord, error) {
	if err := r.schema.ensure(r.db, &entities.UserRecord{}); err != nil {
		return nil, err
	}

	rec := &entities.UserRecord{
		UserID:         user.ID,
		FullName:       user.FullName,
		Username:       user.Username,
		ThreadID:       threadID,
		LastMessageAt:  msg.Date.UTC(),
		FirstReplySent: firstReplySent,
		CanMessage:     canMessage,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&entities.UserRecord{}).Error; err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		return nil, storage("add user", err)
	}
	return rec, nil
}

// GetByUserID returns the record for a user id, or nil when absent
func (r *userRepository) GetByUserID(ctx context.Context, userID int64) (*entities.UserRecord, error) {
	return r.get(ctx, "user_id = ?", userID)
}

// GetByThreadID returns the record bound to a thread id, or nil when absent
func (r *userRepository) GetByThreadID(ctx context.Context, threadID int) (*entities.UserRecord, error) {
	if threadID == 0 {
		return nil, nil
	}
	return r.get(ctx, "thread_id = ?", threadID)
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (*entities.UserRecord, error) {
	if err := r.schema.ensure(r.db, &entities.UserRecord{}); err != nil {
		return nil, err
	}

	var rec entities.UserRecord
	err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storage("get user", err)
	}
	return &rec, nil
}

// Update applies a partial update; a non-nil msg also refreshes the
// record's last message timestamp.
func (r *userRepository) Update(ctx context.Context, userID int64, msg *dto.Message, fields map[string]any) error {
	if err := r.schema.ensure(r.db, &entities.UserRecord{}); err != nil {
		return err
	}

	values := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	if msg != nil {
		values["last_message_at"] = msg.Date.UTC()
	}
	if len(values) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&entities.UserRecord{}).
		Where("user_id = ?", userID).
		Updates(values).Error
	if err != nil {
		return storage("update user", err)
	}
	return nil
}

// UnbindThread clears the record's thread binding
func (r *userRepository) UnbindThread(ctx context.Context, userID int64) error {
	return r.Update(ctx, userID, nil, map[string]any{"thread_id": 0})
}

// ListAll returns every user record
func (r *userRepository) ListAll(ctx context.Context) ([]entities.UserRecord, error) {
	if err := r.schema.ensure(r.db, &entities.UserRecord{}); err != nil {
		return nil, err
	}

	var out []entities.UserRecord
	if err := r.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, storage("list users", err)
	}
	return out, nil
}

// ListStale returns records whose last message is older than now-threshold
func (r *userRepository) ListStale(ctx context.Context, threshold time.Duration) ([]entities.UserRecord, error) {
	if err := r.schema.ensure(r.db, &entities.UserRecord{}); err != nil {
		return nil, err
	}
	if threshold <= 0 {
		threshold = DefaultStaleThreshold
	}

	var out []entities.UserRecord
	ago := time.Now().UTC().Add(-threshold)
	err := r.db.WithContext(ctx).
		Where("last_message_at <= ?", ago).
		Find(&out).Error
	if err != nil {
		return nil, storage("list stale users", err)
	}
	return out, nil
}
