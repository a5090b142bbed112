// Package entities contains persistent entities of the support domain
package entities

import "time"

// UserRecord is one row per end user. ThreadID is the admin-group forum
// topic currently bound to the user; zero means no topic has been created.
type UserRecord struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         int64     `gorm:"uniqueIndex;not null"`
	FullName       string    `gorm:"size:129"`
	Username       string    `gorm:"size:32"`
	ThreadID       int       `gorm:"index"`
	LastMessageAt  time.Time `gorm:"index"`
	Subject        string    `gorm:"size:32"`
	Banned         bool      `gorm:"not null;default:false"`
	FirstReplySent bool      `gorm:"not null;default:false"`
	CanMessage     bool      `gorm:"not null;default:false"`
}

// ActionStat is a per (kind, calendar day) usage counter
type ActionStat struct {
	ID    uint      `gorm:"primaryKey"`
	Kind  string    `gorm:"size:32;not null;uniqueIndex:uniq_action_kind_date"`
	Date  time.Time `gorm:"not null;uniqueIndex:uniq_action_kind_date"`
	Count int64     `gorm:"not null;default:0"`
}

// AdminStat is a per (admin, calendar day) performance counter.
// AdminName is last-write-wins.
type AdminStat struct {
	ID        uint      `gorm:"primaryKey"`
	AdminID   int64     `gorm:"not null;uniqueIndex:uniq_admin_date"`
	AdminName string    `gorm:"size:128;not null"`
	Date      time.Time `gorm:"not null;uniqueIndex:uniq_admin_date"`
	Replies   int64     `gorm:"not null;default:0"`
	Edits     int64     `gorm:"not null;default:0"`
	Deletes   int64     `gorm:"not null;default:0"`
}

// PendingDeletion is a message scheduled for later removal
type PendingDeletion struct {
	ID     uint      `gorm:"primaryKey"`
	ChatID int64     `gorm:"not null;uniqueIndex:uniq_pending_chat_msg"`
	MsgID  int       `gorm:"not null;uniqueIndex:uniq_pending_chat_msg"`
	SentAt time.Time `gorm:"not null"`
	ByBot  bool      `gorm:"not null"`
}

// MirrorEntry links an admin-side message to its delivered copy on the
// user side. At most one live entry per admin-side message; re-adding
// with the same admin key replaces the previous mapping.
type MirrorEntry struct {
	ID          uint  `gorm:"primaryKey"`
	AdminChatID int64 `gorm:"not null;uniqueIndex:uniq_mirror_admin_msg"`
	AdminMsgID  int   `gorm:"not null;uniqueIndex:uniq_mirror_admin_msg"`
	UserChatID  int64 `gorm:"not null;index"`
	UserMsgID   int   `gorm:"not null"`
	ThreadID    int
}
