package telegram

import (
	"strings"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/Conte777/SupportFlow/internal/domain/support/dto"
)

// toUser builds the user snapshot, clamping the full name to what the
// store keeps
func toUser(u *models.User) dto.User {
	if u == nil {
		return dto.User{}
	}
	return dto.User{
		ID:           u.ID,
		FullName:     strings.TrimSpace(u.FirstName + " " + u.LastName),
		Username:     u.Username,
		LanguageCode: u.LanguageCode,
		IsPremium:    u.IsPremium,
	}
}

// toMessage builds the message snapshot; the reply chain is carried one
// level deep, which is all the commands act on
func toMessage(m *models.Message) dto.Message {
	msg := dto.Message{
		ID:       m.ID,
		ChatID:   m.Chat.ID,
		ThreadID: m.MessageThreadID,
		Text:     m.Text,
		Caption:  m.Caption,
		Date:     time.Unix(int64(m.Date), 0).UTC(),
	}
	if m.From != nil {
		msg.From = toUser(m.From)
		msg.FromBot = m.From.IsBot
	}
	if m.ReplyToMessage != nil {
		reply := dto.Message{
			ID:       m.ReplyToMessage.ID,
			ChatID:   m.ReplyToMessage.Chat.ID,
			ThreadID: m.ReplyToMessage.MessageThreadID,
			Text:     m.ReplyToMessage.Text,
			Caption:  m.ReplyToMessage.Caption,
			Date:     time.Unix(int64(m.ReplyToMessage.Date), 0).UTC(),
		}
		if m.ReplyToMessage.From != nil {
			reply.From = toUser(m.ReplyToMessage.From)
			reply.FromBot = m.ReplyToMessage.From.IsBot
		}
		msg.ReplyTo = &reply
	}
	return msg
}
