package telegram

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/SupportFlow/internal/domain/support/deps"
	domainerrors "github.com/Conte777/SupportFlow/internal/domain/support/errors"
	"github.com/Conte777/SupportFlow/internal/domain/support/menu"
	"github.com/Conte777/SupportFlow/internal/infrastructure/telegram"
)

// Gateway adapts the Telegram transport to deps.Gateway. All outgoing
// text is sent as HTML; transport failures are classified onto the
// domain sentinels.
type Gateway struct {
	bot    *tgbot.Bot
	logger zerolog.Logger
}

// NewGateway creates the transport adapter over the shared bot
func NewGateway(bot *telegram.Bot, logger zerolog.Logger) *Gateway {
	return &Gateway{
		bot:    bot.Raw(),
		logger: logger,
	}
}

var _ deps.Gateway = (*Gateway)(nil)

// SendMessage sends HTML text, optionally into a forum topic
func (g *Gateway) SendMessage(ctx context.Context, chatID int64, text string, threadID int) (int, error) {
	msg, err := g.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:          chatID,
		MessageThreadID: threadID,
		Text:            text,
		ParseMode:       models.ParseModeHTML,
	})
	if err != nil {
		return 0, classify(err)
	}
	return msg.ID, nil
}

// SendMenu sends HTML text with the keyboard rendered from the item
func (g *Gateway) SendMenu(ctx context.Context, chatID int64, text string, root *menu.Item, threadID int) (int, error) {
	msg, err := g.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:          chatID,
		MessageThreadID: threadID,
		Text:            text,
		ParseMode:       models.ParseModeHTML,
		ReplyMarkup:     keyboardFor(root, ""),
	})
	if err != nil {
		return 0, classify(err)
	}
	return msg.ID, nil
}

// SendFile uploads a local file as a document
func (g *Gateway) SendFile(ctx context.Context, chatID int64, path, caption string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, domainerrors.ErrGatewayRejected
	}
	defer f.Close()

	msg, err := g.bot.SendDocument(ctx, &tgbot.SendDocumentParams{
		ChatID:    chatID,
		Document:  &models.InputFileUpload{Filename: filepath.Base(path), Data: f},
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return 0, classify(err)
	}
	return msg.ID, nil
}

func (g *Gateway) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	_, err := g.bot.EditMessageText(ctx, &tgbot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	return classify(err)
}

func (g *Gateway) EditCaption(ctx context.Context, chatID int64, messageID int, caption string) error {
	_, err := g.bot.EditMessageCaption(ctx, &tgbot.EditMessageCaptionParams{
		ChatID:    chatID,
		MessageID: messageID,
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	})
	return classify(err)
}

func (g *Gateway) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := g.bot.DeleteMessage(ctx, &tgbot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	return classify(err)
}

func (g *Gateway) ForwardMessage(ctx context.Context, fromChatID int64, messageID int, toChatID int64, threadID int) (int, error) {
	msg, err := g.bot.ForwardMessage(ctx, &tgbot.ForwardMessageParams{
		ChatID:          toChatID,
		MessageThreadID: threadID,
		FromChatID:      fromChatID,
		MessageID:       messageID,
	})
	if err != nil {
		return 0, classify(err)
	}
	return msg.ID, nil
}

func (g *Gateway) CopyMessage(ctx context.Context, fromChatID int64, messageID int, toChatID int64) (int, error) {
	id, err := g.bot.CopyMessage(ctx, &tgbot.CopyMessageParams{
		ChatID:     toChatID,
		FromChatID: fromChatID,
		MessageID:  messageID,
	})
	if err != nil {
		return 0, classify(err)
	}
	return id.ID, nil
}

func (g *Gateway) CreateTopic(ctx context.Context, chatID int64, title string) (int, error) {
	topic, err := g.bot.CreateForumTopic(ctx, &tgbot.CreateForumTopicParams{
		ChatID: chatID,
		Name:   title,
	})
	if err != nil {
		return 0, classify(err)
	}
	return topic.MessageThreadID, nil
}

func (g *Gateway) DeleteTopic(ctx context.Context, chatID int64, threadID int) error {
	_, err := g.bot.DeleteForumTopic(ctx, &tgbot.DeleteForumTopicParams{
		ChatID:          chatID,
		MessageThreadID: threadID,
	})
	return classify(err)
}

func (g *Gateway) ChatBio(ctx context.Context, chatID int64) (string, error) {
	chat, err := g.bot.GetChat(ctx, &tgbot.GetChatParams{ChatID: chatID})
	if err != nil {
		return "", classify(err)
	}
	return chat.Bio, nil
}

// classify maps transport failures onto the domain sentinels so the
// core can pick its recovery path without knowing the transport
func classify(err error) error {
	if err == nil {
		return nil
	}
	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "thread not found"),
		strings.Contains(text, "topic_deleted"):
		return domainerrors.ErrThreadNotFound
	case errors.Is(err, tgbot.ErrorForbidden),
		strings.Contains(text, "bot was blocked"),
		strings.Contains(text, "user is deactivated"),
		strings.Contains(text, "can't initiate conversation"):
		return domainerrors.ErrUserUnreachable
	case strings.Contains(text, "not enough rights"):
		return domainerrors.ErrTopicPermission
	case errors.Is(err, tgbot.ErrorBadRequest):
		return domainerrors.ErrGatewayRejected
	}
	return err
}
