package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/SupportFlow/internal/domain/support/usecase/buissines"
)

// statsCheckInterval is how often the publisher wakes up to check the
// schedule
const statsCheckInterval = 10 * time.Minute

// statsHour is the UTC hour reports are published at
const statsHour = 9

// StatsPublisher posts the weekly report every Monday and the monthly
// report on the first day of the month into the statistics topic
type StatsPublisher struct {
	uc          *buissines.UseCase
	logger      zerolog.Logger
	done        chan struct{}
	ctx         context.Context
	cancel      context.CancelFunc
	lastWeekly  string
	lastMonthly string
}

// NewStatsPublisher creates the report publisher
func NewStatsPublisher(uc *buissines.UseCase, logger zerolog.Logger) *StatsPublisher {
	ctx, cancel := context.WithCancel(context.Background())
	return &StatsPublisher{
		uc:     uc,
		logger: logger,
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start starts the schedule loop
func (p *StatsPublisher) Start() {
	p.logger.Info().Msg("Starting stats publisher...")

	go func() {
		ticker := time.NewTicker(statsCheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-p.done:
				p.logger.Info().Msg("Stats publisher stopped by done signal")
				return
			case <-p.ctx.Done():
				p.logger.Info().Msg("Stats publisher stopped by context cancellation")
				return
			case <-ticker.C:
				p.tick(time.Now().UTC())
			}
		}
	}()
}

// tick publishes due reports at most once per schedule day
func (p *StatsPublisher) tick(now time.Time) {
	if now.Hour() != statsHour {
		return
	}
	day := now.Format("2006-01-02")

	if now.Weekday() == time.Monday && p.lastWeekly != day {
		if err := p.uc.PublishStats(p.ctx, buissines.PeriodWeek); err != nil {
			p.logger.Error().Err(err).Msg("Failed to publish the weekly report")
		} else {
			p.lastWeekly = day
		}
	}
	if now.Day() == 1 && p.lastMonthly != day {
		if err := p.uc.PublishStats(p.ctx, buissines.PeriodMonth); err != nil {
			p.logger.Error().Err(err).Msg("Failed to publish the monthly report")
		} else {
			p.lastMonthly = day
		}
	}
}

// Stop stops the worker gracefully
func (p *StatsPublisher) Stop() error {
	p.logger.Info().Msg("Stopping stats publisher...")
	p.cancel()
	close(p.done)
	return nil
}
