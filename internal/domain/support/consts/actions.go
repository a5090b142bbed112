// Package consts contains enumerations shared across the support domain
package consts

// ActionKind identifies a per-day usage counter
type ActionKind string

const (
	ActionNewUser     ActionKind = "new_user"
	ActionUserMessage ActionKind = "user_message"
	// Reserved for symmetry with admin stat fields; per-admin counters
	// are the primary source for these today.
	ActionAdminReply  ActionKind = "admin_reply"
	ActionAdminEdit   ActionKind = "admin_edit"
	ActionAdminDelete ActionKind = "admin_delete"
)

// AdminStatField identifies a per-admin counter column
type AdminStatField string

const (
	StatReplies AdminStatField = "replies"
	StatEdits   AdminStatField = "edits"
	StatDeletes AdminStatField = "deletes"
)
