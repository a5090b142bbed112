package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/SupportFlow/config"
	"github.com/Conte777/SupportFlow/internal/domain/support/dto"
	domainerrors "github.com/Conte777/SupportFlow/internal/domain/support/errors"
	"github.com/Conte777/SupportFlow/internal/domain/support/menu"
	"github.com/Conte777/SupportFlow/internal/domain/support/usecase/buissines"
	"github.com/Conte777/SupportFlow/internal/infrastructure/telegram"
)

const chatTypePrivate = "private"

// Handlers converts Telegram updates into use case calls. Everything
// that is not a registered command lands in OnUpdate, which routes by
// chat: private chats are end users, the admin group is staff.
type Handlers struct {
	uc     *buissines.UseCase
	cfg    *config.RelayConfig
	selfID int64
	logger zerolog.Logger
}

// NewHandlers creates the update handlers
func NewHandlers(uc *buissines.UseCase, cfg *config.RelayConfig, bot *telegram.Bot, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		cfg:    cfg,
		selfID: bot.ID(),
		logger: logger,
	}
}

// OnUpdate is the default dispatcher for updates no command handler
// matched: plain messages, edited messages and callback queries
func (h *Handlers) OnUpdate(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.onCallback(ctx, b, update)
	case update.EditedMessage != nil:
		h.onEditedMessage(ctx, update.EditedMessage)
	case update.Message != nil:
		h.onMessage(ctx, update.Message)
	}
}

func (h *Handlers) onMessage(ctx context.Context, msg *models.Message) {
	if len(msg.NewChatMembers) > 0 {
		// Greet only when the bot itself was added, not on every join
		for _, member := range msg.NewChatMembers {
			if member.ID != h.selfID {
				continue
			}
			if err := h.uc.HandleGroupHello(ctx, msg.Chat.ID, msg.Chat.IsForum); err != nil {
				h.logger.Warn().Err(err).Int64("chat_id", msg.Chat.ID).Msg("Failed to greet the group")
			}
			break
		}
		return
	}
	if msg.From == nil || msg.From.IsBot {
		return
	}

	switch {
	case msg.Chat.Type == chatTypePrivate:
		h.onUserMessage(ctx, msg)
	case msg.Chat.ID == h.cfg.AdminGroupID && msg.MessageThreadID != 0:
		h.onAdminMessage(ctx, msg)
	}
}

// onUserMessage relays one private message. A missing topic permission
// is reported to the admin group instead of being swallowed.
func (h *Handlers) onUserMessage(ctx context.Context, msg *models.Message) {
	err := h.uc.HandleUserMessage(ctx, toMessage(msg))
	if errors.Is(err, domainerrors.ErrTopicPermission) {
		h.uc.ReportTopicPermission(ctx, toUser(msg.From))
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to handle user message")
	}
}

// onAdminMessage copies a staff message to the user. A blocked bot is
// reported into the topic so the staff see the message went nowhere.
func (h *Handlers) onAdminMessage(ctx context.Context, msg *models.Message) {
	if msg.ForumTopicCreated != nil || msg.ForumTopicClosed != nil || msg.ForumTopicReopened != nil {
		return
	}
	// Unrecognized or mistyped commands must not reach the user
	if strings.HasPrefix(msg.Text, "/") {
		return
	}
	err := h.uc.HandleAdminReply(ctx, toMessage(msg))
	if errors.Is(err, domainerrors.ErrUserUnreachable) {
		h.uc.ReportUserUnreachable(ctx, msg.MessageThreadID)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Int("thread_id", msg.MessageThreadID).Msg("Failed to relay admin reply")
	}
}

func (h *Handlers) onEditedMessage(ctx context.Context, msg *models.Message) {
	if msg.Chat.ID != h.cfg.AdminGroupID || msg.From == nil || msg.From.IsBot {
		return
	}
	err := h.uc.HandleAdminEdit(ctx, toMessage(msg))
	if errors.Is(err, domainerrors.ErrUserUnreachable) {
		h.uc.ReportUserUnreachable(ctx, msg.MessageThreadID)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Int("msg_id", msg.ID).Msg("Failed to propagate admin edit")
	}
}

// OnStart handles /start in a private chat
func (h *Handlers) OnStart(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat.Type != chatTypePrivate {
		return
	}
	if err := h.uc.HandleStart(ctx, toMessage(msg)); err != nil {
		h.logger.Error().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to handle /start")
	}
}

// OnDel handles /del: delete the replied-to mirrored message on both sides
func (h *Handlers) OnDel(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.adminCommand(ctx, b, update, func(msg dto.Message) (string, error) {
		return h.uc.HandleAdminDelete(ctx, msg)
	})
}

// OnSync handles /sync: re-apply the replied-to message onto its copy
func (h *Handlers) OnSync(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.adminCommand(ctx, b, update, func(msg dto.Message) (string, error) {
		return h.uc.HandleSyncCommand(ctx, msg)
	})
}

// OnBan handles /ban: stop relaying the target user's messages
func (h *Handlers) OnBan(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.adminCommand(ctx, b, update, func(msg dto.Message) (string, error) {
		return h.uc.HandleBan(ctx, msg, true)
	})
}

// OnUnban handles /unban
func (h *Handlers) OnUnban(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.adminCommand(ctx, b, update, func(msg dto.Message) (string, error) {
		return h.uc.HandleBan(ctx, msg, false)
	})
}

// OnQuick handles /quick: post the quick-reply keyboard into the topic
func (h *Handlers) OnQuick(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.adminCommand(ctx, b, update, func(msg dto.Message) (string, error) {
		err := h.uc.ShowQuickReplies(ctx, msg.ChatID, msg.ThreadID)
		if errors.Is(err, domainerrors.ErrNoQuickReplies) {
			return "Quick replies are not configured.", nil
		}
		return "", err
	})
}

// OnCleanup handles /cleanup: run the destruction sweep and the stale
// topic sweep on demand
func (h *Handlers) OnCleanup(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.adminCommand(ctx, b, update, func(msg dto.Message) (string, error) {
		deleted, err := h.uc.DestructOldMessages(ctx)
		if err != nil {
			return "", err
		}
		topics, err := h.uc.DeleteStaleTopics(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("🧹 Deleted %d messages and %d stale topics.", deleted, topics), nil
	})
}

// OnStats handles /stats [week|month|lifetime]
func (h *Handlers) OnStats(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.adminCommand(ctx, b, update, func(msg dto.Message) (string, error) {
		period := buissines.PeriodWeek
		parts := strings.Fields(msg.Text)
		if len(parts) > 1 {
			period = parts[1]
		}
		return "", h.uc.PublishStats(ctx, period)
	})
}

// adminCommand guards a group command and reports the feedback text
// back into the thread the command was issued in
func (h *Handlers) adminCommand(ctx context.Context, b *tgbot.Bot, update *models.Update, fn func(dto.Message) (string, error)) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	// A user literally typing a command is a message to relay, not a
	// command to run
	if msg.Chat.Type == chatTypePrivate {
		h.onUserMessage(ctx, msg)
		return
	}
	if msg.Chat.ID != h.cfg.AdminGroupID {
		return
	}
	feedback, err := fn(toMessage(msg))
	if err != nil {
		h.logger.Error().Err(err).Str("command", msg.Text).Msg("Admin command failed")
		feedback = "⚠️ The command failed, see the logs."
	}
	if feedback == "" {
		return
	}
	_, sendErr := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		MessageThreadID: msg.MessageThreadID,
		Text:            feedback,
		ParseMode:       models.ParseModeHTML,
	})
	if sendErr != nil {
		h.logger.Warn().Err(sendErr).Msg("Failed to send command feedback")
	}
}

// onCallback routes a keyboard press: presses inside the admin group
// are quick replies, presses in private chats walk the user menu
func (h *Handlers) onCallback(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	call := update.CallbackQuery
	path, ok := decodePath(call.Data)
	if !ok {
		return
	}

	chatID, messageID, threadID := callbackOrigin(call.Message)
	answer := ""
	showAlert := false

	if chatID == h.cfg.AdminGroupID {
		answer, showAlert = h.quickReplyAnswer(ctx, threadID, path)
	} else {
		answer, showAlert = h.onMenuPress(ctx, b, call, chatID, messageID, path)
	}

	_, err := b.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: call.ID,
		Text:            answer,
		ShowAlert:       showAlert,
	})
	if err != nil {
		h.logger.Debug().Err(err).Msg("Failed to answer the callback")
	}
}

// quickReplyAnswer dispatches one quick reply and renders the
// operator's callback answer. Failures pop an alert so the operator
// cannot miss that nothing was sent.
func (h *Handlers) quickReplyAnswer(ctx context.Context, threadID int, path string) (string, bool) {
	text, err := h.uc.HandleQuickReply(ctx, threadID, path)
	switch {
	case errors.Is(err, domainerrors.ErrNoQuickReplies):
		return "Quick replies are not configured.", true
	case errors.Is(err, domainerrors.ErrUserNotFound):
		return "No user is bound to this topic.", true
	case err != nil:
		h.logger.Error().Err(err).Str("path", path).Msg("Quick reply failed")
		return "⚠️ The reply was not sent.", true
	}
	return text, false
}

// onMenuPress reacts to one user menu press and returns the callback
// answer
func (h *Handlers) onMenuPress(ctx context.Context, b *tgbot.Bot, call *models.CallbackQuery, chatID int64, messageID int, path string) (string, bool) {
	item := h.uc.MainMenu().Find(path)
	if item == nil {
		return "This button is no longer available.", true
	}
	user := toUser(&call.From)

	if item.StartChat {
		if err := h.uc.HandleContactRequest(ctx, user, dto.Message{ChatID: chatID}); err != nil {
			h.logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to open the chat")
			return "⚠️ Something went wrong.", true
		}
		// The button still carries its own answer text
		if item.Answer != "" {
			if item.AsNewMessage {
				if err := h.uc.SendMenuAnswer(ctx, user.ID, item); err != nil {
					h.logger.Error().Err(err).Str("code", item.Code).Msg("Failed to send the menu answer")
				}
			} else {
				h.editMenuMessage(ctx, b, chatID, messageID, item.Answer, navKeyboard(path))
			}
		}
		return "", false
	}

	switch item.Mode {
	case menu.ModeSubject:
		if err := h.uc.HandleSetSubject(ctx, user, item); err != nil {
			h.logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to set the subject")
			return "⚠️ Something went wrong.", true
		}
	case menu.ModeFile:
		if err := h.uc.SendMenuFile(ctx, user.ID, item); err != nil {
			h.logger.Error().Err(err).Str("file", item.File).Msg("Failed to send the menu file")
			return "⚠️ The file is unavailable.", true
		}
	case menu.ModeSubmenu:
		h.editMenuMessage(ctx, b, chatID, messageID, item.Answer, keyboardFor(item, path))
	default:
		if item.AsNewMessage {
			if err := h.uc.SendMenuAnswer(ctx, user.ID, item); err != nil {
				h.logger.Error().Err(err).Str("code", item.Code).Msg("Failed to send the menu answer")
				return "⚠️ Something went wrong.", true
			}
		} else {
			h.editMenuMessage(ctx, b, chatID, messageID, item.Answer, navKeyboard(path))
		}
	}
	return "", false
}

func (h *Handlers) editMenuMessage(ctx context.Context, b *tgbot.Bot, chatID int64, messageID int, text string, kb *models.InlineKeyboardMarkup) {
	params := &tgbot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if kb != nil {
		params.ReplyMarkup = *kb
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.logger.Debug().Err(err).Int("msg_id", messageID).Msg("Failed to redraw the menu")
	}
}

// callbackOrigin extracts chat, message and thread ids from the pressed
// message, tolerating inaccessible originals
func callbackOrigin(msg models.MaybeInaccessibleMessage) (int64, int, int) {
	switch msg.Type {
	case models.MaybeInaccessibleMessageTypeMessage:
		if msg.Message == nil {
			return 0, 0, 0
		}
		return msg.Message.Chat.ID, msg.Message.ID, msg.Message.MessageThreadID
	case models.MaybeInaccessibleMessageTypeInaccessibleMessage:
		if msg.InaccessibleMessage == nil {
			return 0, 0, 0
		}
		return msg.InaccessibleMessage.Chat.ID, msg.InaccessibleMessage.MessageID, 0
	default:
		return 0, 0, 0
	}
}
