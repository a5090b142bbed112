package buissines

import (
	"context"
	"time"
)

// DestructOldMessages deletes queued messages whose destruction window
// has elapsed. User and bot messages carry independent windows; a zero
// window disables the category. Gateway failures are coalesced into one
// log line per sweep and the queue entries are dropped regardless, so a
// message the transport already lost does not stay queued forever.
func (uc *UseCase) DestructOldMessages(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	total := 0

	for _, cat := range []struct {
		hours int
		byBot bool
	}{
		{uc.cfg.DestructUserHours, false},
		{uc.cfg.DestructBotHours, true},
	} {
		if cat.hours == 0 {
			continue
		}
		before := now.Add(-time.Duration(cat.hours) * time.Hour)
		due, err := uc.pending.ListDue(ctx, before, cat.byBot)
		if err != nil {
			return total, err
		}
		if len(due) == 0 {
			continue
		}

		failed := 0
		var firstErr error
		for _, entry := range due {
			if err := uc.gateway.DeleteMessage(ctx, entry.ChatID, entry.MsgID); err != nil {
				failed++
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			total++
		}
		if failed > 0 {
			uc.logger.Warn().Err(firstErr).
				Int("failed", failed).
				Bool("by_bot", cat.byBot).
				Msg("Some queued messages could not be deleted")
		}
		if err := uc.pending.Remove(ctx, due); err != nil {
			return total, err
		}
	}

	if total > 0 {
		uc.logger.Info().Int("count", total).Msg("Destructed old messages")
	}
	return total, nil
}
