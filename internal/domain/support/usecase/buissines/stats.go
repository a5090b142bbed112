package buissines

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/Conte777/SupportFlow/config"
	"github.com/Conte777/SupportFlow/internal/domain/support/consts"
	"github.com/Conte777/SupportFlow/internal/domain/support/dto"
)

// Report periods accepted by PublishStats
const (
	PeriodWeek     = "week"
	PeriodMonth    = "month"
	PeriodLifetime = "lifetime"
)

// BuildReport renders one statistics block. Absent counters render as
// zero, so a quiet period still produces a complete report.
func BuildReport(title string, from, to time.Time, actions map[consts.ActionKind]int64, admins []dto.AdminTotals) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b> (%s — %s)\n\n", title, from.Format("2006-01-02"), to.Format("2006-01-02"))

	fmt.Fprintf(&b, "<b>Users</b>\n")
	fmt.Fprintf(&b, "• New: %d\n", actions[consts.ActionNewUser])
	fmt.Fprintf(&b, "• Messages: %d\n\n", actions[consts.ActionUserMessage])

	b.WriteString("<b>Admins</b>\n")
	if len(admins) == 0 {
		b.WriteString("—\n")
	} else {
		var replies, edits, deletes int64
		for _, a := range admins {
			replies += a.Replies
			edits += a.Edits
			deletes += a.Deletes
		}
		b.WriteString("Total: " + adminLine(replies, edits, deletes) + "\n")
		for _, a := range admins {
			fmt.Fprintf(&b, "• <b>%s</b> — %s\n", html.EscapeString(a.AdminName), adminLine(a.Replies, a.Edits, a.Deletes))
		}
	}

	b.WriteString("\n#stats")
	return b.String()
}

// adminLine renders reply/edit/delete totals, hiding zero-valued
// edit and delete counters
func adminLine(replies, edits, deletes int64) string {
	line := fmt.Sprintf("✉️ %d", replies)
	if edits > 0 {
		line += fmt.Sprintf(", ✏️ %d", edits)
	}
	if deletes > 0 {
		line += fmt.Sprintf(", 🗑️ %d", deletes)
	}
	return line
}

// BuildRangeReport queries the counters for [from, to] and renders
// the block
func (uc *UseCase) BuildRangeReport(ctx context.Context, title string, from, to time.Time) (string, error) {
	actions, err := uc.actions.SumRange(ctx, from, to)
	if err != nil {
		return "", err
	}
	admins, err := uc.admins.SumRange(ctx, from, to)
	if err != nil {
		return "", err
	}
	return BuildReport(title, from, to, actions, admins), nil
}

// PublishStats posts the report for the period into the statistics
// topic, creating the topic on first use. Periodic reports carry the
// all-time block appended below the period block.
func (uc *UseCase) PublishStats(ctx context.Context, period string) error {
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	var from time.Time
	var title string
	switch period {
	case PeriodWeek:
		from = today.AddDate(0, 0, -6)
		title = "Weekly report"
	case PeriodMonth:
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		title = "Monthly report"
	default:
		from = time.Time{}
		title = "All time"
	}

	text, err := uc.BuildRangeReport(ctx, title, from, today)
	if err != nil {
		return err
	}
	if period != PeriodLifetime {
		allTime, err := uc.BuildRangeReport(ctx, "All time", time.Time{}, today)
		if err != nil {
			return err
		}
		text += "\n\n" + allTime
	}

	threadID, err := uc.ensureStatsTopic(ctx)
	if err != nil {
		return err
	}
	_, err = uc.gateway.SendMessage(ctx, uc.cfg.AdminGroupID, text, threadID)
	return err
}

// ensureStatsTopic returns the statistics topic, creating it and
// caching the id on disk the first time. The cached id survives
// restarts so the group does not accumulate duplicate topics.
func (uc *UseCase) ensureStatsTopic(ctx context.Context) (int, error) {
	uc.statsMu.Lock()
	defer uc.statsMu.Unlock()

	if uc.cfg.StatsTopicID != 0 {
		return uc.cfg.StatsTopicID, nil
	}

	threadID, err := uc.gateway.CreateTopic(ctx, uc.cfg.AdminGroupID, uc.cfg.StatsTopicName)
	if err != nil {
		return 0, err
	}
	uc.cfg.StatsTopicID = threadID

	path := config.StatsTopicIDFile(uc.cfg.StateDir)
	if err := os.WriteFile(path, []byte(fmt.Sprintf("%d", threadID)), 0o644); err != nil {
		uc.logger.Warn().Err(err).Str("path", path).Msg("Failed to cache the statistics topic id")
	}
	uc.logger.Info().Int("thread_id", threadID).Msg("Created the statistics topic")
	return threadID, nil
}
