// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// Bot wraps the Telegram bot for infrastructure layer. The default
// handler is installed after construction because the delivery layer
// that provides it depends on this bot being created first.
type Bot struct {
	bot            *tgbot.Bot
	id             int64
	logger         zerolog.Logger
	defaultHandler tgbot.HandlerFunc
}

// NewBot creates a new Telegram bot wrapper
func NewBot(token string, logger zerolog.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	b := &Bot{id: idFromToken(token), logger: logger}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(b.dispatch),
	}

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.bot = bot

	logger.Info().Msg("Telegram bot created successfully")
	return b, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// ID returns the bot's own user id, encoded as the numeric prefix of
// the token
func (b *Bot) ID() int64 {
	return b.id
}

func idFromToken(token string) int64 {
	prefix, _, _ := strings.Cut(token, ":")
	id, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// SetDefaultHandler installs the dispatcher for non-command updates.
// Must be called before Start.
func (b *Bot) SetDefaultHandler(h tgbot.HandlerFunc) {
	b.defaultHandler = h
}

// Start starts the bot (blocking call)
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Msg("Starting Telegram bot...")
	b.bot.Start(ctx)
	b.logger.Info().Msg("Telegram bot stopped")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() error {
	b.logger.Info().Msg("Stopping Telegram bot...")
	return nil
}

// dispatch forwards updates to the installed default handler
func (b *Bot) dispatch(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	if b.defaultHandler != nil {
		b.defaultHandler(ctx, bot, update)
	}
}
