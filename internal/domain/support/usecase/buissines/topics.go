package buissines

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"time"

	"github.com/Conte777/SupportFlow/internal/domain/support/dto"
	"github.com/Conte777/SupportFlow/internal/domain/support/entities"
	domainerrors "github.com/Conte777/SupportFlow/internal/domain/support/errors"
)

// relayToTopic forwards the user message into the user's forum topic,
// creating the topic first when the user has none. A forward that fails
// with a missing thread recreates the topic and retries exactly once.
func (uc *UseCase) relayToTopic(ctx context.Context, msg dto.Message, rec *entities.UserRecord) (int, error) {
	threadID := rec.ThreadID
	if threadID == 0 {
		created, err := uc.createTopic(ctx, msg.From, rec.Subject)
		if err != nil {
			return 0, err
		}
		threadID = created
	}

	_, err := uc.gateway.ForwardMessage(ctx, msg.ChatID, msg.ID, uc.cfg.AdminGroupID, threadID)
	if errors.Is(err, domainerrors.ErrThreadNotFound) {
		uc.logger.Info().
			Int64("user_id", msg.From.ID).
			Int("thread_id", threadID).
			Msg("Topic is gone, recreating")
		threadID, err = uc.createTopic(ctx, msg.From, rec.Subject)
		if err != nil {
			return 0, err
		}
		_, err = uc.gateway.ForwardMessage(ctx, msg.ChatID, msg.ID, uc.cfg.AdminGroupID, threadID)
	}
	if err != nil {
		return 0, err
	}
	return threadID, nil
}

// createTopic creates a forum topic for the user and seeds it with the
// user summary and, when configured, the quick-reply keyboard
func (uc *UseCase) createTopic(ctx context.Context, user dto.User, subject string) (int, error) {
	threadID, err := uc.gateway.CreateTopic(ctx, uc.cfg.AdminGroupID, topicName(user))
	if err != nil {
		return 0, err
	}

	info, err := uc.userInfo(ctx, user, subject)
	if err == nil {
		_, err = uc.gateway.SendMessage(ctx, uc.cfg.AdminGroupID, info, threadID)
	}
	if err != nil {
		uc.logger.Warn().Err(err).Int("thread_id", threadID).Msg("Failed to post the user summary")
	}

	if uc.menus.Quick != nil {
		if _, err := uc.gateway.SendMenu(ctx, uc.cfg.AdminGroupID, "Quick replies:", uc.menus.Quick.Root, threadID); err != nil {
			uc.logger.Warn().Err(err).Int("thread_id", threadID).Msg("Failed to post quick replies")
		}
	}
	return threadID, nil
}

// userInfo builds the HTML summary posted as the first message of a
// fresh topic
func (uc *UseCase) userInfo(ctx context.Context, user dto.User, subject string) (string, error) {
	text := "<b>" + html.EscapeString(displayName(user)) + "</b>"
	if user.Username != "" {
		text += "\n@" + user.Username
	}
	text += "\nID: <code>" + formatInt64(user.ID) + "</code>"
	if user.LanguageCode != "" {
		text += "\nLanguage: " + user.LanguageCode
	}
	if user.IsPremium {
		text += "\nPremium: yes"
	}
	if subject != "" {
		text += "\nSubject: <b>" + html.EscapeString(subject) + "</b>"
	}
	if bio, err := uc.gateway.ChatBio(ctx, user.ID); err == nil && bio != "" {
		text += "\n\n<i>" + html.EscapeString(bio) + "</i>"
	}
	return text, nil
}

// staleThreshold is how long a user may stay silent before the topic
// is considered abandoned
const staleThreshold = 14 * 24 * time.Hour

// DeleteStaleTopics removes topics of users with no activity for the
// stale threshold and unbinds their records. Gateway failures are
// logged and do not stop the sweep.
func (uc *UseCase) DeleteStaleTopics(ctx context.Context) (int, error) {
	stale, err := uc.users.ListStale(ctx, staleThreshold)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, rec := range stale {
		if rec.ThreadID == 0 {
			continue
		}
		if err := uc.gateway.DeleteTopic(ctx, uc.cfg.AdminGroupID, rec.ThreadID); err != nil {
			uc.logger.Warn().Err(err).
				Int64("user_id", rec.UserID).
				Int("thread_id", rec.ThreadID).
				Msg("Failed to delete stale topic")
		}
		if err := uc.users.UnbindThread(ctx, rec.UserID); err != nil {
			uc.logger.Error().Err(err).Int64("user_id", rec.UserID).Msg("Failed to unbind thread")
			continue
		}
		removed++
	}
	if removed > 0 {
		uc.logger.Info().Int("count", removed).Msg("Deleted stale topics")
	}
	return removed, nil
}

// ReportUserUnreachable posts a notice into the topic when a copy to
// the user bounced because the user blocked the bot
func (uc *UseCase) ReportUserUnreachable(ctx context.Context, threadID int) {
	rec, err := uc.users.GetByThreadID(ctx, threadID)
	if err != nil || rec == nil {
		return
	}
	if _, err := uc.gateway.SendMessage(ctx, uc.cfg.AdminGroupID, "❌ The user has blocked the bot, the message was not delivered.", threadID); err != nil {
		uc.logger.Warn().Err(err).Int("thread_id", threadID).Msg("Failed to report an unreachable user")
	}
}

// ReportTopicPermission warns the admin group that a topic could not be
// created for the user
func (uc *UseCase) ReportTopicPermission(ctx context.Context, user dto.User) {
	text := fmt.Sprintf("⚠️ %s writes to the bot, but the bot has not enough rights to manage topics in this group.", html.EscapeString(displayName(user)))
	if _, err := uc.gateway.SendMessage(ctx, uc.cfg.AdminGroupID, text, 0); err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to report missing topic rights")
	}
}

func topicName(user dto.User) string {
	name := displayName(user)
	if user.Username != "" {
		name += " (@" + user.Username + ")"
	}
	return name
}

func displayName(user dto.User) string {
	if user.FullName != "" {
		return user.FullName
	}
	if user.Username != "" {
		return "@" + user.Username
	}
	return formatInt64(user.ID)
}

func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}
