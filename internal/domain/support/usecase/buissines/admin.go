package buissines

import (
	"context"
	"errors"
	"time"

	"github.com/Conte777/SupportFlow/internal/domain/support/consts"
	"github.com/Conte777/SupportFlow/internal/domain/support/dto"
	"github.com/Conte777/SupportFlow/internal/domain/support/entities"
	domainerrors "github.com/Conte777/SupportFlow/internal/domain/support/errors"
	"github.com/Conte777/SupportFlow/internal/domain/support/menu"
)

// HandleAdminReply copies an admin message from a user's topic to the
// user's private chat, records the mirror pair and bumps the counter.
// Messages in threads with no bound user are ignored.
func (uc *UseCase) HandleAdminReply(ctx context.Context, msg dto.Message) error {
	rec, err := uc.users.GetByThreadID(ctx, msg.ThreadID)
	if err != nil || rec == nil {
		return err
	}

	copyID, err := uc.gateway.CopyMessage(ctx, msg.ChatID, msg.ID, rec.UserID)
	if err != nil {
		return err
	}

	if err := uc.mirror.Add(ctx, entities.MirrorEntry{
		AdminChatID: msg.ChatID,
		AdminMsgID:  msg.ID,
		UserChatID:  rec.UserID,
		UserMsgID:   copyID,
		ThreadID:    msg.ThreadID,
	}); err != nil {
		uc.logger.Error().Err(err).Int("admin_msg_id", msg.ID).Msg("Failed to record the mirror pair")
	}

	if err := uc.admins.Bump(ctx, msg.From.ID, displayName(msg.From), consts.StatReplies); err != nil {
		uc.logger.Error().Err(err).Int64("admin_id", msg.From.ID).Msg("Failed to count the reply")
	}
	if err := uc.exporter.ExportAdminMessage(ctx, msg, *rec); err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to export admin message")
	}

	uc.scheduleBotMessage(ctx, rec.UserID, copyID)
	return nil
}

// HandleAdminEdit propagates an edit of a mirrored admin message to the
// user's copy. Edits of messages with no mirror entry are ignored.
func (uc *UseCase) HandleAdminEdit(ctx context.Context, msg dto.Message) error {
	m, err := uc.mirror.Get(ctx, msg.ChatID, msg.ID)
	if err != nil || m == nil {
		return err
	}
	return uc.editMirrored(ctx, m, msg)
}

// HandleSyncCommand re-applies the replied-to admin message onto the
// user's copy. Returns the operator feedback text.
func (uc *UseCase) HandleSyncCommand(ctx context.Context, msg dto.Message) (string, error) {
	if msg.ReplyTo == nil {
		return "Reply to the message you want to sync.", nil
	}
	m, err := uc.mirror.Get(ctx, msg.ChatID, msg.ReplyTo.ID)
	if err != nil {
		return "", err
	}
	if m == nil {
		return "This message has no copy on the user's side.", nil
	}
	source := *msg.ReplyTo
	source.From = msg.From
	if err := uc.editMirrored(ctx, m, source); err != nil {
		return "", err
	}
	return "✅ Synced with the user's copy.", nil
}

// editMirrored applies the text or caption of src onto the user-side
// copy. When the gateway rejects the edit (unchanged content, mixed
// media, too old) the copy is replaced with a fresh one and the mirror
// entry is rewritten. The edit counter is bumped once on success.
func (uc *UseCase) editMirrored(ctx context.Context, m *entities.MirrorEntry, src dto.Message) error {
	var err error
	switch {
	case src.Text != "":
		err = uc.gateway.EditText(ctx, m.UserChatID, m.UserMsgID, src.Text)
	case src.Caption != "":
		err = uc.gateway.EditCaption(ctx, m.UserChatID, m.UserMsgID, src.Caption)
	default:
		err = domainerrors.ErrGatewayRejected
	}

	if errors.Is(err, domainerrors.ErrGatewayRejected) {
		copyID, copyErr := uc.gateway.CopyMessage(ctx, m.AdminChatID, m.AdminMsgID, m.UserChatID)
		if copyErr != nil {
			return copyErr
		}
		if delErr := uc.gateway.DeleteMessage(ctx, m.UserChatID, m.UserMsgID); delErr != nil {
			uc.logger.Debug().Err(delErr).Int("user_msg_id", m.UserMsgID).Msg("Failed to delete the stale copy")
		}
		if addErr := uc.mirror.Add(ctx, entities.MirrorEntry{
			AdminChatID: m.AdminChatID,
			AdminMsgID:  m.AdminMsgID,
			UserChatID:  m.UserChatID,
			UserMsgID:   copyID,
			ThreadID:    m.ThreadID,
		}); addErr != nil {
			uc.logger.Error().Err(addErr).Int("admin_msg_id", m.AdminMsgID).Msg("Failed to rewrite the mirror pair")
		}
		uc.scheduleBotMessage(ctx, m.UserChatID, copyID)
		err = nil
	}
	if err != nil {
		return err
	}

	if bumpErr := uc.admins.Bump(ctx, src.From.ID, displayName(src.From), consts.StatEdits); bumpErr != nil {
		uc.logger.Error().Err(bumpErr).Int64("admin_id", src.From.ID).Msg("Failed to count the edit")
	}
	return nil
}

// HandleAdminDelete removes the user-side copy, the topic original, the
// mirror entry and the command message itself. Every step is
// best-effort so a half-deleted pair still cleans up as far as it can.
func (uc *UseCase) HandleAdminDelete(ctx context.Context, msg dto.Message) (string, error) {
	if msg.ReplyTo == nil {
		return "Reply to the message you want to delete.", nil
	}
	m, err := uc.mirror.Get(ctx, msg.ChatID, msg.ReplyTo.ID)
	if err != nil {
		return "", err
	}
	if m == nil {
		return "This message has no copy on the user's side.", nil
	}

	if err := uc.gateway.DeleteMessage(ctx, m.UserChatID, m.UserMsgID); err != nil {
		uc.logger.Debug().Err(err).Int("user_msg_id", m.UserMsgID).Msg("Failed to delete the user copy")
	}
	if err := uc.gateway.DeleteMessage(ctx, msg.ChatID, msg.ReplyTo.ID); err != nil {
		uc.logger.Debug().Err(err).Int("admin_msg_id", msg.ReplyTo.ID).Msg("Failed to delete the topic original")
	}
	if err := uc.mirror.Delete(ctx, msg.ChatID, msg.ReplyTo.ID); err != nil {
		uc.logger.Error().Err(err).Int("admin_msg_id", msg.ReplyTo.ID).Msg("Failed to delete the mirror pair")
	}
	if err := uc.admins.Bump(ctx, msg.From.ID, displayName(msg.From), consts.StatDeletes); err != nil {
		uc.logger.Error().Err(err).Int64("admin_id", msg.From.ID).Msg("Failed to count the delete")
	}
	if err := uc.gateway.DeleteMessage(ctx, msg.ChatID, msg.ID); err != nil {
		uc.logger.Debug().Err(err).Int("msg_id", msg.ID).Msg("Failed to delete the command message")
	}
	return "", nil
}

// HandleBan toggles the banned flag of the user behind the replied-to
// message. The target is resolved through the mirror entry first and
// falls back to the thread binding for forwarded user messages.
func (uc *UseCase) HandleBan(ctx context.Context, msg dto.Message, banned bool) (string, error) {
	if msg.ReplyTo == nil {
		return "Reply to a message of the user.", nil
	}

	var userID int64
	m, err := uc.mirror.Get(ctx, msg.ChatID, msg.ReplyTo.ID)
	if err != nil {
		return "", err
	}
	if m != nil {
		userID = m.UserChatID
	} else {
		rec, err := uc.users.GetByThreadID(ctx, msg.ThreadID)
		if err != nil {
			return "", err
		}
		if rec == nil {
			return "Could not resolve the user for this message.", nil
		}
		userID = rec.UserID
	}

	if err := uc.users.Update(ctx, userID, nil, map[string]any{"banned": banned}); err != nil {
		return "", err
	}
	if banned {
		return "🚫 The user is banned.", nil
	}
	return "✅ The user is unbanned.", nil
}

// HandleQuickReply sends the quick-reply answer behind path to the
// user bound to threadID and posts a confirmation into the topic.
// The returned text is shown to the operator.
func (uc *UseCase) HandleQuickReply(ctx context.Context, threadID int, path string) (string, error) {
	if uc.menus.Quick == nil {
		return "", domainerrors.ErrNoQuickReplies
	}
	item := uc.menus.Quick.Find(path)
	if item == nil || item.Mode != menu.ModeAnswer {
		return "Reply not found.", nil
	}
	rec, err := uc.users.GetByThreadID(ctx, threadID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", domainerrors.ErrUserNotFound
	}

	sentID, err := uc.gateway.SendMessage(ctx, rec.UserID, item.Answer, 0)
	if err != nil {
		return "", err
	}
	uc.scheduleBotMessage(ctx, rec.UserID, sentID)

	if _, err := uc.gateway.SendMessage(ctx, uc.cfg.AdminGroupID, "➡️ Sent to the user:\n"+item.Answer, threadID); err != nil {
		uc.logger.Warn().Err(err).Int("thread_id", threadID).Msg("Failed to confirm the quick reply")
	}
	if err := uc.exporter.ExportAdminMessage(ctx, dto.Message{
		ID:      sentID,
		ChatID:  rec.UserID,
		Text:    item.Answer,
		FromBot: true,
		Date:    time.Now().UTC(),
	}, *rec); err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to export quick reply")
	}
	return "Message sent.", nil
}

// ShowQuickReplies posts the quick-reply keyboard into the topic
func (uc *UseCase) ShowQuickReplies(ctx context.Context, chatID int64, threadID int) error {
	if uc.menus.Quick == nil {
		return domainerrors.ErrNoQuickReplies
	}
	_, err := uc.gateway.SendMenu(ctx, chatID, "Quick replies:", uc.menus.Quick.Root, threadID)
	return err
}
