// Package telegram contains the Telegram delivery layer
package telegram

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/rs/zerolog"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates a new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all command handlers on the bot. Everything
// else reaches the bot's default handler, Handlers.OnUpdate.
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	mw := r.handlers.middleware()

	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, mw("start", r.handlers.OnStart))
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/del", tgbot.MatchTypeExact, mw("del", r.handlers.OnDel))
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/sync", tgbot.MatchTypeExact, mw("sync", r.handlers.OnSync))
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/ban", tgbot.MatchTypeExact, mw("ban", r.handlers.OnBan))
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/unban", tgbot.MatchTypeExact, mw("unban", r.handlers.OnUnban))
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/quick", tgbot.MatchTypeExact, mw("quick", r.handlers.OnQuick))
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/cleanup", tgbot.MatchTypeExact, mw("cleanup", r.handlers.OnCleanup))
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/stats", tgbot.MatchTypePrefix, mw("stats", r.handlers.OnStats))

	r.logger.Info().Msg("All Telegram command handlers registered successfully")
}
