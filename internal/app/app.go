// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/Conte777/SupportFlow/config"
	"github.com/Conte777/SupportFlow/internal/domain"
	"github.com/Conte777/SupportFlow/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, database, telegram bot)
		infrastructure.Module,

		// Domain (support relay business logic)
		domain.Module,
	)
}
