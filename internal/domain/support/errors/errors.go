// Package errors contains domain-specific errors for the support domain
package errors

import (
	pkgerrors "github.com/Conte777/SupportFlow/pkg/errors"
)

// Gateway failure classes the relay flow distinguishes. Gateway
// implementations must map transport failures onto these sentinels so
// the core can pick the recovery path without knowing the transport.
var (
	// ErrThreadNotFound means the bound forum topic no longer exists;
	// recoverable by creating a fresh topic and retrying once.
	ErrThreadNotFound = pkgerrors.NewNotFoundError("message thread not found")

	// ErrUserUnreachable means the user blocked the bot or left the chat;
	// recoverable at the report level only.
	ErrUserUnreachable = pkgerrors.NewPermissionError("user is unreachable")

	// ErrTopicPermission means the bot lacks rights to create a topic in
	// the admin group.
	ErrTopicPermission = pkgerrors.NewPermissionError("not enough rights to create a topic")

	// ErrGatewayRejected is the bad-request class: the remote channel
	// refused the operation (message not editable, already deleted, etc.)
	ErrGatewayRejected = pkgerrors.NewConflictError("gateway rejected the operation")
)

// Domain errors for support operations
var (
	ErrUserNotFound   = pkgerrors.NewNotFoundError("user not found")
	ErrMirrorNotFound = pkgerrors.NewNotFoundError("no mirrored copy for this message")
	ErrNoQuickReplies = pkgerrors.NewValidationError("quick replies are not configured")
	ErrNoReplyTarget  = pkgerrors.NewValidationError("command must reply to a message")
)
