// Package workers contains background workers for the support domain
package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/SupportFlow/internal/domain/support/usecase/buissines"
)

// destructInterval is how often the deletion queue is swept
const destructInterval = time.Hour

// Destructor periodically deletes queued messages whose destruction
// window elapsed and removes topics of long-silent users
type Destructor struct {
	uc     *buissines.UseCase
	logger zerolog.Logger
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDestructor creates the destruction worker
func NewDestructor(uc *buissines.UseCase, logger zerolog.Logger) *Destructor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Destructor{
		uc:     uc,
		logger: logger,
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start starts the periodic sweep
func (d *Destructor) Start() {
	d.logger.Info().Dur("interval", destructInterval).Msg("Starting destructor worker...")

	go func() {
		ticker := time.NewTicker(destructInterval)
		defer ticker.Stop()

		for {
			select {
			case <-d.done:
				d.logger.Info().Msg("Destructor worker stopped by done signal")
				return
			case <-d.ctx.Done():
				d.logger.Info().Msg("Destructor worker stopped by context cancellation")
				return
			case <-ticker.C:
				d.sweep()
			}
		}
	}()
}

func (d *Destructor) sweep() {
	if _, err := d.uc.DestructOldMessages(d.ctx); err != nil {
		d.logger.Error().Err(err).Msg("Destruction sweep failed")
	}
	if _, err := d.uc.DeleteStaleTopics(d.ctx); err != nil {
		d.logger.Error().Err(err).Msg("Stale topic sweep failed")
	}
}

// Stop stops the worker gracefully
func (d *Destructor) Stop() error {
	d.logger.Info().Msg("Stopping destructor worker...")
	d.cancel()
	close(d.done)
	return nil
}
