// Package deps contains interface definitions for the support domain dependencies
package deps

import (
	"context"
	"time"

	"github.com/Conte777/SupportFlow/internal/domain/support/consts"
	"github.com/Conte777/SupportFlow/internal/domain/support/dto"
	"github.com/Conte777/SupportFlow/internal/domain/support/entities"
	"github.com/Conte777/SupportFlow/internal/domain/support/menu"
)

// Gateway is the messaging transport the core relies on. Implementations
// must classify failures onto the sentinels in support/errors so the core
// can pick the recovery path.
type Gateway interface {
	// SendMessage sends text into a chat, optionally into a forum topic
	// (threadID zero means outside topics). Returns the new message id.
	SendMessage(ctx context.Context, chatID int64, text string, threadID int) (int, error)

	// SendMenu sends text with the keyboard rendered from the given item
	SendMenu(ctx context.Context, chatID int64, text string, root *menu.Item, threadID int) (int, error)

	// SendFile sends a local file with an optional caption
	SendFile(ctx context.Context, chatID int64, path, caption string) (int, error)

	// EditText edits the text of an existing message in place
	EditText(ctx context.Context, chatID int64, messageID int, text string) error

	// EditCaption edits the caption of an existing media message in place
	EditCaption(ctx context.Context, chatID int64, messageID int, caption string) error

	// DeleteMessage removes a message from a chat
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	// ForwardMessage forwards a message into a chat/topic, keeping the
	// original sender attribution. Returns the forwarded message id.
	ForwardMessage(ctx context.Context, fromChatID int64, messageID int, toChatID int64, threadID int) (int, error)

	// CopyMessage re-sends a message into a chat without attribution.
	// Returns the copy's message id.
	CopyMessage(ctx context.Context, fromChatID int64, messageID int, toChatID int64) (int, error)

	// CreateTopic creates a forum topic in a group and returns its thread id
	CreateTopic(ctx context.Context, chatID int64, title string) (int, error)

	// DeleteTopic removes a forum topic and all its messages
	DeleteTopic(ctx context.Context, chatID int64, threadID int) error

	// ChatBio returns the bio of a private chat, best-effort
	ChatBio(ctx context.Context, chatID int64) (string, error)
}

// UserRepository persists user records
type UserRepository interface {
	// Add replaces any existing record for the user identity and returns
	// the stored snapshot without a second read
	Add(ctx context.Context, user dto.User, msg dto.Message, threadID int, firstReplySent, canMessage bool) (*entities.UserRecord, error)

	// GetByUserID returns the record for a user id, or nil when absent
	GetByUserID(ctx context.Context, userID int64) (*entities.UserRecord, error)

	// GetByThreadID returns the record bound to a thread id, or nil when absent
	GetByThreadID(ctx context.Context, threadID int) (*entities.UserRecord, error)

	// Update applies a partial update; when msg is non-nil, the record's
	// last message timestamp is set from it alongside fields
	Update(ctx context.Context, userID int64, msg *dto.Message, fields map[string]any) error

	// UnbindThread clears the record's thread binding
	UnbindThread(ctx context.Context, userID int64) error

	// ListAll returns every user record
	ListAll(ctx context.Context) ([]entities.UserRecord, error)

	// ListStale returns records whose last message is older than now-threshold
	ListStale(ctx context.Context, threshold time.Duration) ([]entities.UserRecord, error)
}

// ActionStatRepository persists per-day usage counters
type ActionStatRepository interface {
	// Increment adds one to today's counter for the kind; safe under
	// concurrent callers
	Increment(ctx context.Context, kind consts.ActionKind) error

	// SumRange returns kind totals between from and to inclusive
	SumRange(ctx context.Context, from, to time.Time) (map[consts.ActionKind]int64, error)

	// SumAllTime returns kind totals over the whole store
	SumAllTime(ctx context.Context) (map[consts.ActionKind]int64, error)
}

// AdminStatRepository persists per-admin performance counters
type AdminStatRepository interface {
	// Bump adds one to today's field for the admin; unknown fields are a
	// silent no-op
	Bump(ctx context.Context, adminID int64, adminName string, field consts.AdminStatField) error

	// SumRange returns per-admin totals between from and to inclusive,
	// ordered by reply count descending
	SumRange(ctx context.Context, from, to time.Time) ([]dto.AdminTotals, error)
}

// PendingDeletionRepository persists the deletion queue
type PendingDeletionRepository interface {
	// Add schedules a message for deletion; scheduling the same message
	// twice is a no-op
	Add(ctx context.Context, chatID int64, messageID int, sentAt time.Time, byBot bool) error

	// ListDue returns entries sent before the given time with the given
	// authorship flag
	ListDue(ctx context.Context, before time.Time, byBot bool) ([]entities.PendingDeletion, error)

	// Remove deletes the given entries from the queue
	Remove(ctx context.Context, entries []entities.PendingDeletion) error
}

// MirrorRepository persists admin-to-user message links
type MirrorRepository interface {
	// Add stores the mapping, replacing any previous entry with the same
	// admin-side key
	Add(ctx context.Context, entry entities.MirrorEntry) error

	// Get returns the entry for an admin-side message, or nil when absent
	Get(ctx context.Context, adminChatID int64, adminMsgID int) (*entities.MirrorEntry, error)

	// Delete drops the entry for an admin-side message
	Delete(ctx context.Context, adminChatID int64, adminMsgID int) error
}

// Exporter is the fire-and-forget message logging sink. Failures are
// logged by implementations and never propagate into the relay flow.
type Exporter interface {
	// ExportUserMessage records an inbound user message; newUser marks
	// first contact
	ExportUserMessage(ctx context.Context, msg dto.Message, newUser bool) error

	// ExportAdminMessage records an admin message relayed to a user
	ExportAdminMessage(ctx context.Context, msg dto.Message, user entities.UserRecord) error
}
