// Package buissines contains business logic for the support domain
package buissines

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/SupportFlow/config"
	"github.com/Conte777/SupportFlow/internal/domain/support/consts"
	"github.com/Conte777/SupportFlow/internal/domain/support/deps"
	"github.com/Conte777/SupportFlow/internal/domain/support/dto"
	"github.com/Conte777/SupportFlow/internal/domain/support/menu"
)

// Menus bundles the configured button documents
type Menus struct {
	Main  *menu.Menu
	Quick *menu.Menu
}

// UseCase contains business logic for the relay flow
type UseCase struct {
	cfg      *config.RelayConfig
	users    deps.UserRepository
	actions  deps.ActionStatRepository
	admins   deps.AdminStatRepository
	pending  deps.PendingDeletionRepository
	mirror   deps.MirrorRepository
	exporter deps.Exporter
	gateway  deps.Gateway
	menus    Menus
	logger   zerolog.Logger

	statsMu sync.Mutex // guards the stats topic id
}

// NewUseCase creates a new UseCase instance.
// Note: the gateway is not passed here to break the cyclic dependency
// with the delivery layer. Use SetGateway after creating the handlers.
func NewUseCase(
	cfg *config.RelayConfig,
	users deps.UserRepository,
	actions deps.ActionStatRepository,
	admins deps.AdminStatRepository,
	pending deps.PendingDeletionRepository,
	mirror deps.MirrorRepository,
	exporter deps.Exporter,
	menus Menus,
	logger zerolog.Logger,
) *UseCase {
	if menus.Main != nil {
		menus.Main.SetRootAnswer(cfg.HelloMsg)
	}
	return &UseCase{
		cfg:      cfg,
		users:    users,
		actions:  actions,
		admins:   admins,
		pending:  pending,
		mirror:   mirror,
		exporter: exporter,
		menus:    menus,
		logger:   logger,
	}
}

// SetGateway sets the messaging gateway after construction.
// Called by fx.Invoke to resolve the cyclic dependency.
func (uc *UseCase) SetGateway(gw deps.Gateway) {
	uc.gateway = gw
}

// MainMenu returns the configured user menu, nil when absent
func (uc *UseCase) MainMenu() *menu.Menu {
	return uc.menus.Main
}

// HandleStart handles the /start command in a private chat
func (uc *UseCase) HandleStart(ctx context.Context, msg dto.Message) error {
	sentID, err := uc.sendMainMenu(ctx, msg.ChatID, uc.cfg.HelloMsg)
	if err != nil {
		return err
	}

	rec, err := uc.users.GetByUserID(ctx, msg.From.ID)
	if err != nil {
		return err
	}
	newUser := rec == nil
	if newUser {
		if _, err := uc.users.Add(ctx, msg.From, msg, 0, false, false); err != nil {
			return err
		}
	}

	uc.saveUserMessage(ctx, msg, newUser, false)
	uc.scheduleDestruction(ctx, msg)
	uc.scheduleBotMessage(ctx, msg.ChatID, sentID)
	return nil
}

// HandleUserMessage runs the access-gate state machine for one inbound
// private message: banned, gate-closed, gate-open without a topic,
// gate-open with a topic.
func (uc *UseCase) HandleUserMessage(ctx context.Context, msg dto.Message) error {
	rec, err := uc.users.GetByUserID(ctx, msg.From.ID)
	if err != nil {
		return err
	}

	if rec != nil && rec.Banned {
		// Banned users are only logged, never forwarded or answered
		uc.saveUserMessage(ctx, msg, false, true)
		return nil
	}

	if rec == nil || !rec.CanMessage {
		return uc.handleGateClosed(ctx, msg, rec == nil)
	}

	threadID, err := uc.relayToTopic(ctx, msg, rec)
	if err != nil {
		return err
	}

	if rec.FirstReplySent {
		err = uc.users.Update(ctx, msg.From.ID, &msg, map[string]any{
			"thread_id": threadID,
		})
	} else {
		if uc.cfg.FirstReply != "" {
			sentID, sendErr := uc.gateway.SendMessage(ctx, msg.ChatID, uc.cfg.FirstReply, 0)
			if sendErr != nil {
				uc.logger.Warn().Err(sendErr).Int64("user_id", msg.From.ID).Msg("Failed to send first reply")
			} else {
				uc.scheduleBotMessage(ctx, msg.ChatID, sentID)
			}
		}
		err = uc.users.Update(ctx, msg.From.ID, &msg, map[string]any{
			"thread_id":        threadID,
			"first_reply_sent": true,
			"can_message":      true,
		})
	}
	if err != nil {
		return err
	}

	uc.saveUserMessage(ctx, msg, false, true)
	uc.scheduleDestruction(ctx, msg)
	return nil
}

// handleGateClosed answers a message from a user who has not opted in
// yet: show the gate prompt, create the record on first contact, count
// the new user once. No topic is created until the user opts in.
func (uc *UseCase) handleGateClosed(ctx context.Context, msg dto.Message, newUser bool) error {
	sentID, err := uc.sendMainMenu(ctx, msg.ChatID, uc.cfg.ContactGateMsg)
	if err != nil {
		return err
	}

	if newUser {
		if _, err := uc.users.Add(ctx, msg.From, msg, 0, false, false); err != nil {
			return err
		}
	}

	uc.saveUserMessage(ctx, msg, newUser, false)
	uc.scheduleDestruction(ctx, msg)
	uc.scheduleBotMessage(ctx, msg.ChatID, sentID)
	return nil
}

// HandleContactRequest opens the gate for the user. For an existing
// record the first-reply flag is reset on purpose, so the next message
// triggers the first-contact welcome again.
func (uc *UseCase) HandleContactRequest(ctx context.Context, user dto.User, msg dto.Message) error {
	rec, err := uc.users.GetByUserID(ctx, user.ID)
	if err != nil {
		return err
	}

	if rec != nil {
		err = uc.users.Update(ctx, user.ID, nil, map[string]any{
			"can_message":      true,
			"first_reply_sent": false,
		})
	} else {
		_, err = uc.users.Add(ctx, user, msg, 0, false, true)
	}
	if err != nil {
		return err
	}

	if uc.cfg.ContactUnlockedMsg != "" {
		sentID, sendErr := uc.gateway.SendMessage(ctx, user.ID, uc.cfg.ContactUnlockedMsg, 0)
		if sendErr != nil {
			return sendErr
		}
		uc.scheduleBotMessage(ctx, user.ID, sentID)
	}
	return nil
}

// HandleSetSubject stores the subject picked from the menu and notifies
// the user's topic when it changes
func (uc *UseCase) HandleSetSubject(ctx context.Context, user dto.User, item *menu.Item) error {
	answer := item.Answer
	if answer == "" {
		answer = "Please write your question about \"" + item.Label + "\""
	}
	sentID, err := uc.gateway.SendMessage(ctx, user.ID, answer, 0)
	if err != nil {
		return err
	}
	uc.scheduleBotMessage(ctx, user.ID, sentID)

	rec, err := uc.users.GetByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	if rec != nil && rec.ThreadID != 0 && rec.Subject != item.Subject {
		if err := uc.users.Update(ctx, user.ID, nil, map[string]any{"subject": item.Subject}); err != nil {
			return err
		}
		notice := "The user changed subject to <b>" + item.Subject + "</b>"
		if _, err := uc.gateway.SendMessage(ctx, uc.cfg.AdminGroupID, notice, rec.ThreadID); err != nil {
			uc.logger.Warn().Err(err).Int("thread_id", rec.ThreadID).Msg("Failed to announce subject change")
		}
	}
	return nil
}

// HandleGroupHello reports the group id when the bot joins a group
func (uc *UseCase) HandleGroupHello(ctx context.Context, groupID int64, isForum bool) error {
	text := "Hello!\nID of this group: <code>" + formatInt64(groupID) + "</code>"
	if !isForum {
		text += "\n\n❗ Please enable topics in the group settings. This will also change its ID."
	}
	_, err := uc.gateway.SendMessage(ctx, groupID, text, 0)
	return err
}

// sendMainMenu sends text with the main menu attached, or a plain
// message when no menu is configured
func (uc *UseCase) sendMainMenu(ctx context.Context, chatID int64, text string) (int, error) {
	if uc.menus.Main != nil {
		return uc.gateway.SendMenu(ctx, chatID, text, uc.menus.Main.Root, 0)
	}
	return uc.gateway.SendMessage(ctx, chatID, text, 0)
}

// saveUserMessage runs the export sink and the usage counters for one
// inbound user message. Export failures never interrupt the flow.
func (uc *UseCase) saveUserMessage(ctx context.Context, msg dto.Message, newUser, stat bool) {
	if err := uc.exporter.ExportUserMessage(ctx, msg, newUser); err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to export user message")
	}
	if stat {
		if err := uc.actions.Increment(ctx, consts.ActionUserMessage); err != nil {
			uc.logger.Error().Err(err).Msg("Failed to count user message")
		}
	}
	if newUser {
		if err := uc.actions.Increment(ctx, consts.ActionNewUser); err != nil {
			uc.logger.Error().Err(err).Msg("Failed to count new user")
		}
	}
}

// scheduleDestruction queues the message for later deletion when the
// matching destruction window is configured
func (uc *UseCase) scheduleDestruction(ctx context.Context, msg dto.Message) {
	hours := uc.cfg.DestructUserHours
	if msg.FromBot {
		hours = uc.cfg.DestructBotHours
	}
	if hours == 0 || msg.ID == 0 {
		return
	}
	if err := uc.pending.Add(ctx, msg.ChatID, msg.ID, msg.Date, msg.FromBot); err != nil {
		uc.logger.Error().Err(err).Msg("Failed to schedule message destruction")
	}
}

// scheduleBotMessage queues a bot-authored message by its bare id, for
// call sites that only have the id of a sent copy
func (uc *UseCase) scheduleBotMessage(ctx context.Context, chatID int64, messageID int) {
	if uc.cfg.DestructBotHours == 0 || messageID == 0 {
		return
	}
	if err := uc.pending.Add(ctx, chatID, messageID, time.Now().UTC(), true); err != nil {
		uc.logger.Error().Err(err).Msg("Failed to schedule message destruction")
	}
}
