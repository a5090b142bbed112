package telegram

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Default returns the wrapped dispatcher used as the bot's default
// handler
func (h *Handlers) Default() tgbot.HandlerFunc {
	return h.middleware()("update", h.OnUpdate)
}

// middleware returns a wrapper that logs every handled command and
// recovers panics, so one broken update cannot take the poller down
func (h *Handlers) middleware() func(name string, fn tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(name string, fn tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					h.logger.Error().
						Str("handler", name).
						Interface("panic", r).
						Msg("Handler panicked")
				}
			}()
			h.logger.Debug().Str("handler", name).Int64("update_id", update.ID).Msg("Handling update")
			fn(ctx, b, update)
		}
	}
}
